package usecase

import (
	"context"
	"embed"
	"html/template"

	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/mail"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

//go:embed templates/*.html
var templateFS embed.FS

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoMail  repoMail
	tmpl      *template.Template
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoMail   repoMail
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) (*Usecase, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Usecase{
		repoMail:  dep.RepoMail,
		tmpl:      tmpl,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}, nil
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
