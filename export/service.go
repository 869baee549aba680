package export

import (
	"context"
	"sync"
	"time"
)

// ExportResult is a rendered export ready for delivery.
type ExportResult struct {
	Definition  string
	Format      Format
	Filename    string
	ContentType string
	Data        []byte
	// Artifact is set when the service keeps a copy in its ArtifactStore.
	Artifact *ArtifactRef
}

// Service resolves record types and renders their exports.
type Service interface {
	Definitions() []Definition
	Exporter(name string) (*Exporter, error)
	Export(ctx context.Context, format Format, req ExportRequest) (ExportResult, error)
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Definitions *DefinitionRegistry
	Templates   TemplateSource
	PDF         PDFRenderer
	// Artifacts optionally keeps a copy of every successful export. A
	// failed write is logged and does not fail the export.
	Artifacts ArtifactStore
	Logger    Logger
	// Timezone is an IANA name used to display datetime values.
	Timezone    string
	Now         func() time.Time
	IDGenerator func() string
}

type service struct {
	defs      *DefinitionRegistry
	templates TemplateSource
	pdf       PDFRenderer
	artifacts ArtifactStore
	logger    Logger
	location  *time.Location
	now       func() time.Time
	idGen     func() string

	mu        sync.Mutex
	exporters map[string]*Exporter
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) (Service, error) {
	defs := cfg.Definitions
	if defs == nil {
		defs = NewDefinitionRegistry()
	}
	if cfg.Templates == nil {
		return nil, NewError(KindValidation, "template source is required", nil)
	}
	fc, err := newFormatContext(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = defaultIDGenerator()
	}

	return &service{
		defs:      defs,
		templates: cfg.Templates,
		pdf:       cfg.PDF,
		artifacts: cfg.Artifacts,
		logger:    logger,
		location:  fc.location,
		now:       nowFn,
		idGen:     idGen,
		exporters: make(map[string]*Exporter),
	}, nil
}

func (s *service) Definitions() []Definition {
	return s.defs.Definitions()
}

func (s *service) Exporter(name string) (*Exporter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp, ok := s.exporters[name]; ok {
		return exp, nil
	}

	def, err := s.defs.Resolve(name)
	if err != nil {
		return nil, err
	}
	exp, err := NewExporter(def, s.templates)
	if err != nil {
		return nil, err
	}
	exp.PDF = s.pdf
	exp.Logger = s.logger
	exp.Location = s.location
	exp.Now = s.now
	exp.IDGenerator = s.idGen
	s.exporters[name] = exp
	return exp, nil
}

func (s *service) Export(ctx context.Context, format Format, req ExportRequest) (ExportResult, error) {
	exp, err := s.Exporter(req.Definition)
	if err != nil {
		return ExportResult{}, err
	}
	data, err := exp.Export(ctx, format, req)
	if err != nil {
		return ExportResult{}, err
	}
	filename, err := exp.Filename("", format)
	if err != nil {
		return ExportResult{}, err
	}
	result := ExportResult{
		Definition:  exp.Definition.Name,
		Format:      format,
		Filename:    filename,
		ContentType: format.ContentType(),
		Data:        data,
	}
	if s.artifacts != nil {
		ref, err := StoreResult(ctx, s.artifacts, result)
		if err != nil {
			s.logger.Warnf("export %s: keep artifact %s: %v", result.Definition, filename, err)
		} else {
			result.Artifact = &ref
		}
	}
	return result, nil
}
