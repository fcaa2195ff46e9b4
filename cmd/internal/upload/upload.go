// Package upload 는 업로드 전 PDF 검증과 진행률 추적을 담당한다.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	PDFMimeType = "application/pdf"
	// MaxFileSize 는 업로드 허용 최대 크기(50MB)다.
	MaxFileSize int64 = 50 << 20
)

var (
	ErrEmptyFile      = errors.New("file is empty")
	ErrTooLarge       = fmt.Errorf("file exceeds %d MB", MaxFileSize>>20)
	ErrNotPDF         = errors.New("only PDF files are allowed")
	ErrUnreadablePDF  = errors.New("PDF file could not be read")
	ErrNotRegularFile = errors.New("not a regular file")
)

// Info 는 검증을 통과한 PDF 의 기본 정보다.
type Info struct {
	Path      string
	Filename  string
	Size      int64
	PageCount int
	MIME      string
}

// Validate 는 로컬 파일이 업로드 가능한 PDF 인지 확인한다.
// 확장자가 아니라 내용(매직 넘버)과 실제 파싱 결과로 판단한다.
func Validate(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("upload: stat %s: %w", path, err)
	}
	if !st.Mode().IsRegular() {
		return Info{}, ErrNotRegularFile
	}
	if err := checkSize(st.Size()); err != nil {
		return Info{}, err
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("upload: detect type: %w", err)
	}
	if !mt.Is(PDFMimeType) {
		return Info{}, ErrNotPDF
	}

	pages, err := countPagesFile(path)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Path:      path,
		Filename:  filepath.Base(path),
		Size:      st.Size(),
		PageCount: pages,
		MIME:      mt.String(),
	}, nil
}

// ValidateBytes 는 메모리에 올라온 업로드 본문을 검증한다 (게이트웨이 multipart 프록시용).
func ValidateBytes(filename string, data []byte) (Info, error) {
	if err := checkSize(int64(len(data))); err != nil {
		return Info{}, err
	}
	mt := mimetype.Detect(data)
	if !mt.Is(PDFMimeType) {
		return Info{}, ErrNotPDF
	}
	pages, err := countPages(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, err
	}
	return Info{
		Filename:  filepath.Base(filename),
		Size:      int64(len(data)),
		PageCount: pages,
		MIME:      mt.String(),
	}, nil
}

func checkSize(n int64) error {
	if n == 0 {
		return ErrEmptyFile
	}
	if n > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

func countPagesFile(path string) (n int, err error) {
	// 손상된 파일에서 pdf 파서가 panic 하는 경우가 있다.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, ErrUnreadablePDF
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return 0, ErrUnreadablePDF
	}
	return reader.NumPage(), nil
}

func countPages(r io.ReaderAt, size int64) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			n, err = 0, ErrUnreadablePDF
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	if reader.NumPage() < 1 {
		return 0, ErrUnreadablePDF
	}
	return reader.NumPage(), nil
}

// DefaultTitle 은 제목을 입력하지 않았을 때 백엔드가 쓰는 값(확장자를 뺀 파일명)이다.
func DefaultTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ProgressFunc 는 업로드 진행률(0~100)을 받는다.
type ProgressFunc func(percent int)

// ProgressReader 는 읽은 바이트 수를 total 기준 백분율로 콜백한다.
// 같은 값은 한 번만 보고한다.
type ProgressReader struct {
	r        io.Reader
	total    int64
	onChange ProgressFunc

	mu   sync.Mutex
	read int64
	last int
}

func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, onChange: fn, last: -1}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)

	p.mu.Lock()
	p.read += int64(n)
	pct := p.percentLocked()
	if errors.Is(err, io.EOF) {
		pct = 100
	}
	changed := pct != p.last
	p.last = pct
	p.mu.Unlock()

	if changed && p.onChange != nil {
		p.onChange(pct)
	}
	return n, err
}

func (p *ProgressReader) percentLocked() int {
	if p.total <= 0 {
		return 0
	}
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Percent 는 현재까지의 진행률이다.
func (p *ProgressReader) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percentLocked()
}
