package photo

import (
	"context"
	"strings"
	"sync"

	"github.com/homefix/homefix/alert"
	"github.com/homefix/homefix/api"
	"github.com/homefix/homefix/log"
)

const (
	Placeholder = "정의되지 않음"

	ImageErrorTitle    = "오류"
	ImageErrorMessage  = "이미지를 처리할 수 없습니다."
	UploadErrorTitle   = "업로드 실패"
	UploadErrorMessage = "서버에 연결할 수 없습니다."
)

// Result is the diagnosis for one photo.
type Result struct {
	Problem     string
	Location    string
	UserMessage string
	Solution    string
	ImagePath   string
}

func (r Result) Empty() bool {
	return r.Problem == "" && r.Location == "" && r.Solution == ""
}

// Display returns the result with blank fields replaced by the placeholder.
func (r Result) Display() Result {
	out := r
	for _, f := range []*string{&out.Problem, &out.Location, &out.Solution} {
		if strings.TrimSpace(*f) == "" {
			*f = Placeholder
		}
	}
	return out
}

// Analyzer is the part of the API client a Session needs.
type Analyzer interface {
	Analyze(ctx context.Context, imageBase64 string) (*api.AnalyzeResponse, error)
	AnalyzeWithText(ctx context.Context, imageBase64, message string) (*api.AnalyzeResponse, error)
}

// Session holds the selected photo and the last successful result.
type Session struct {
	analyzer Analyzer

	mu        sync.Mutex
	selected  *Encoded
	result    *Result
	analyzing bool
}

func NewSession(analyzer Analyzer) *Session {
	return &Session{analyzer: analyzer}
}

// Select loads and encodes the photo at path. On failure the previous
// selection is kept and an *alert.Alert is returned.
func (s *Session) Select(path string) (*Encoded, error) {
	enc, err := Load(ExpandPath(path))
	if err != nil {
		log.WarningLog.Printf("failed to prepare image %s: %v", path, err)
		return nil, alert.New(ImageErrorTitle, ImageErrorMessage, err)
	}

	s.mu.Lock()
	s.selected = enc
	s.mu.Unlock()
	log.InfoLog.Printf("selected image %s (%s %dx%d)", path, enc.Format, enc.Width, enc.Height)
	return enc, nil
}

// Selected returns the current photo, or nil.
func (s *Session) Selected() *Encoded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Clear drops the selected photo. The last result is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Result returns the last successful diagnosis.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func (s *Session) Analyzing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzing
}

// Analyze uploads the selected photo, with note when it is not blank. A
// failure keeps the previous result and returns an *alert.Alert.
func (s *Session) Analyze(ctx context.Context, note string) (Result, error) {
	s.mu.Lock()
	enc := s.selected
	if enc == nil {
		s.mu.Unlock()
		return Result{}, ErrNoImage
	}
	if s.analyzing {
		s.mu.Unlock()
		return Result{}, ErrBusy
	}
	s.analyzing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.analyzing = false
		s.mu.Unlock()
	}()

	note = strings.TrimSpace(note)
	var (
		resp *api.AnalyzeResponse
		err  error
	)
	if note == "" {
		resp, err = s.analyzer.Analyze(ctx, enc.Base64)
	} else {
		resp, err = s.analyzer.AnalyzeWithText(ctx, enc.Base64, note)
	}
	if err != nil {
		log.ErrorLog.Printf("image analysis failed: %v", err)
		return Result{}, alert.New(UploadErrorTitle, UploadErrorMessage, err)
	}

	res := Result{
		Problem:     resp.Problem,
		Location:    resp.Location,
		UserMessage: resp.UserMessage,
		Solution:    resp.Solution,
		ImagePath:   enc.Path,
	}
	if res.UserMessage == "" {
		res.UserMessage = note
	}

	s.mu.Lock()
	s.result = &res
	s.mu.Unlock()
	return res, nil
}
