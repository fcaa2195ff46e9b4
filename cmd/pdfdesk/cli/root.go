// Package cli 는 pdfdesk 터미널 클라이언트의 cobra 명령들이다.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pdf-desk/cmd/internal/logger"
	"pdf-desk/config"
)

// 설정 키. config.yaml 의 키 경로와 같다.
const (
	keyBackendURL   = "backend.url"
	keyTimeout      = "backend.timeout_seconds"
	keyLongTimeout  = "backend.long_timeout_seconds"
	keyLogLevel     = "logging.level"
	keyItemsPerPage = "pagination.items_per_page"
)

// Execute 는 main 에서 한 번 호출된다.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err == nil {
		return
	}
	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(1)
}

// NewRootCmd 는 입출력을 주입받는 루트 명령을 만든다.
// 설정 우선순위: 플래그 > 환경변수 > config.yaml > 기본값.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	v := viper.New()
	a := &app{v: v, in: in, out: out, errOut: errOut}
	var cfgFile string

	root := &cobra.Command{
		Use:           "pdfdesk",
		Short:         "Browse, summarize, and study your PDF documents from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			logger.Init(v.GetString(keyLogLevel))
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is config.yaml in the project root)")
	pf.String("api-url", "", "backend base URL (env "+config.EnvBackendURL+")")
	pf.String("log-level", "", "log level (env "+config.EnvLogLevel+")")
	pf.BoolP("yes", "y", false, "skip confirmation prompts")
	_ = v.BindPFlag(keyBackendURL, pf.Lookup("api-url"))
	_ = v.BindPFlag(keyLogLevel, pf.Lookup("log-level"))
	_ = v.BindPFlag("yes", pf.Lookup("yes"))

	root.AddCommand(
		newDocumentsCmd(a),
		newSummariesCmd(a),
		newStudyCmd(a),
		newHealthCmd(a),
		newHomeCmd(a),
	)

	return root
}

// initConfig 는 config 파일과 환경변수를 viper 에 읽어들인다.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetDefault(keyBackendURL, config.DefaultBackendURL)
	v.SetDefault(keyTimeout, 10)
	v.SetDefault(keyLongTimeout, 300)
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyItemsPerPage, config.DefaultItemsPerPage)

	_ = v.BindEnv(keyBackendURL, config.EnvBackendURL)
	_ = v.BindEnv(keyLogLevel, config.EnvLogLevel)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("PDFDESK")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	base := config.GetBasePath()
	if base == "" {
		return nil
	}
	// .env 는 선택 사항이다.
	_ = godotenv.Load(filepath.Join(base, config.ENV_FILE))
	v.SetConfigFile(filepath.Join(base, config.CONFIG_FILE))
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}
