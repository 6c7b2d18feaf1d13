package analyses

import (
	"context"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/pau-interconnect/cv-analyzer/internal/application"
	domai "github.com/pau-interconnect/cv-analyzer/internal/domain/ai"
	"github.com/pau-interconnect/cv-analyzer/internal/domain/analyze"
	"github.com/pau-interconnect/cv-analyzer/internal/domain/users"
)

// Service implements the analyze use-case: save the upload, extract the
// resume text, ask the model for a fit analysis, append the result to the
// user's history. Each step can fail independently; the first failure is
// returned as a step error and nothing after it runs.
type Service struct {
	Uploads   analyze.UploadStore
	Extractor analyze.TextExtractor
	AI        domai.Client
	Users     users.Repository
	Mirror    analyze.ObjectMirror // optional, best effort
	Clock     application.Clock
	AITimeout time.Duration
	Log       zerolog.Logger
}

// AnalyzeCommand carries everything the pipeline needs for one request.
// Internships is the raw role-list string from the client; it is embedded
// into the prompt exactly as received.
type AnalyzeCommand struct {
	Name        string
	Email       string
	Internships string
	FileName    string
	Data        []byte
}

type AnalyzeResult struct {
	Analysis string `json:"analysis"`
}

func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	localPath, err := s.Uploads.Save(ctx, cmd.FileName, cmd.Data)
	if err != nil {
		return AnalyzeResult{}, analyze.NewError(analyze.StepUpload, err)
	}

	text, err := s.Extractor.ExtractFile(localPath)
	if err != nil {
		return AnalyzeResult{}, analyze.NewError(analyze.StepExtract, err)
	}

	aiCtx := ctx
	if s.AITimeout > 0 {
		var cancel context.CancelFunc
		aiCtx, cancel = context.WithTimeout(ctx, s.AITimeout)
		defer cancel()
	}
	result, err := s.AI.AnalyzeFit(aiCtx, text, cmd.Internships)
	if err != nil {
		return AnalyzeResult{}, analyze.NewError(analyze.StepAnalyze, err)
	}

	// The local upload dir stays the primary store; a mirror failure must not
	// fail a request whose analysis already succeeded.
	if s.Mirror != nil {
		key := path.Join(users.NormalizeEmail(cmd.Email), cmd.FileName)
		if url, merr := s.Mirror.Mirror(ctx, localPath, key); merr != nil {
			s.Log.Warn().Err(merr).Str("file", cmd.FileName).Msg("upload mirror failed")
		} else {
			s.Log.Debug().Str("url", url).Msg("upload mirrored")
		}
	}

	entry := users.Analysis{
		FileName: cmd.FileName,
		Date:     users.Timestamp(s.Clock.Now().UTC()),
		Analysis: result,
	}
	if err := s.Users.AppendAnalysis(ctx, cmd.Name, cmd.Email, entry); err != nil {
		return AnalyzeResult{}, analyze.NewError(analyze.StepPersist, err)
	}

	return AnalyzeResult{Analysis: result}, nil
}

// History returns the stored record for an email, nil when none exists.
func (s *Service) History(ctx context.Context, email string) (*users.User, error) {
	return s.Users.Get(ctx, email)
}
