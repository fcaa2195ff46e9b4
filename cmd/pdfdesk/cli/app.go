package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/services"
)

// app 은 명령들이 공유하는 클라이언트와 입출력이다. 클라이언트는 처음 쓸 때 만든다.
type app struct {
	v      *viper.Viper
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	reader *bufio.Reader
	client *pdfapi.Client
}

func (a *app) api() *pdfapi.Client {
	if a.client == nil {
		a.client = pdfapi.New(pdfapi.Config{
			BaseURL:     a.v.GetString(keyBackendURL),
			Timeout:     seconds(a.v, keyTimeout),
			LongTimeout: seconds(a.v, keyLongTimeout),
		})
	}
	return a.client
}

func (a *app) documents() *services.DocumentService {
	return services.NewDocumentService(a.api(), a.v.GetInt(keyItemsPerPage))
}

func (a *app) summaries() *services.SummaryService {
	return services.NewSummaryService(a.api(), a.v.GetInt(keyItemsPerPage))
}

func (a *app) stats() *services.StatsService {
	return services.NewStatsService(a.api())
}

// readLine 은 입력 한 줄을 읽는다. 입력이 끝나면 io.EOF 를 돌려준다.
func (a *app) readLine() (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.in)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm 은 --yes 가 없으면 y/N 을 묻는다.
func (a *app) confirm(prompt string) services.Confirmation {
	if a.v.GetBool("yes") {
		return services.Confirmed
	}
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
	line, err := a.readLine()
	if err != nil {
		fmt.Fprintln(a.out)
		return services.Unconfirmed
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return services.Confirmed
	}
	return services.Unconfirmed
}

// notify 는 작업 결과 알림을 출력한다. 실패 알림은 stderr 로 간다.
func (a *app) notify(n services.Notice) {
	w := a.out
	if n.Level == services.LevelError {
		w = a.errOut
	}
	fmt.Fprintln(w, n.Message)
}

// reportedError 는 이미 사용자에게 알린 에러다. Execute 가 다시 출력하지 않는다.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// fail 은 실패 알림을 출력하고 명령 에러를 돌려준다.
func (a *app) fail(prefix string, err error) error {
	a.notify(services.Failure(prefix, err))
	return reportedError{err}
}
