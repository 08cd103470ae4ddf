package emotion

import (
	"context"
	"fmt"
	"time"

	"github.com/KYKELUKE/IA-AyudaAuditiva/emotion/config"
	"github.com/KYKELUKE/IA-AyudaAuditiva/history"
	"github.com/KYKELUKE/IA-AyudaAuditiva/logging"
	"github.com/KYKELUKE/IA-AyudaAuditiva/transcode"
)

// Analyzer composes the full pipeline: decode -> extract -> classify ->
// compose, with an optional history append. Each Analyze call is
// independent and stateless; the only shared state is the read-only model
// inside the classifier, so concurrent calls are safe.
type Analyzer struct {
	cfg        *config.PipelineConfig
	decoder    *transcode.Decoder
	extractor  *Extractor
	classifier *Classifier
	composer   *Composer
	store      history.Store
	logger     logging.Logger

	now func() time.Time
}

// NewAnalyzer wires the pipeline and fails fast on configuration-integrity
// defects: the model's dimensionality must match the extractor's, and the
// message table must cover exactly the model's label set. store may be nil
// when history recording is not wanted.
func NewAnalyzer(cfg *config.PipelineConfig, model ScoringModel, store history.Store) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultPipelineConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("scoring model cannot be nil")
	}

	extractor := NewExtractor(cfg)
	if model.Dimensions() != extractor.Dimensions() {
		return nil, fmt.Errorf("%w: model expects %d dimensions, extractor produces %d",
			ErrFeatureDimensionMismatch, model.Dimensions(), extractor.Dimensions())
	}

	composer, err := NewComposer(model.Labels(), DefaultMessages())
	if err != nil {
		return nil, fmt.Errorf("message table validation failed: %w", err)
	}

	return &Analyzer{
		cfg: cfg,
		decoder: transcode.NewDecoder(&transcode.DecoderConfig{
			TargetSampleRate: cfg.SampleRate,
			MaxClipDuration:  cfg.MaxClipDuration,
		}),
		extractor:  extractor,
		classifier: NewClassifier(model),
		composer:   composer,
		store:      store,
		logger: logging.WithFields(logging.Fields{
			"component": "emotion_analyzer",
		}),
		now: time.Now,
	}, nil
}

// Config returns the pipeline configuration
func (a *Analyzer) Config() *config.PipelineConfig {
	return a.cfg
}

// Analyze runs the full pipeline over one uploaded clip. When userID is
// non-empty the result is appended to the history store.
func (a *Analyzer) Analyze(ctx context.Context, clip transcode.AudioClip, userID string) (*AnalysisResult, error) {
	logger := a.logger.WithFields(logging.Fields{
		"function":  "Analyze",
		"mime_type": clip.MIMEType,
		"data_size": len(clip.Data),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pcm, err := a.decoder.Decode(clip)
	if err != nil {
		return nil, err
	}

	features, err := a.extractor.Extract(pcm)
	if err != nil {
		return nil, fmt.Errorf("feature extraction failed: %w", err)
	}

	scores, err := a.classifier.Classify(features)
	if err != nil {
		return nil, err
	}

	result, err := a.composer.Compose(scores)
	if err != nil {
		return nil, err
	}

	logger.Info("Analysis completed", logging.Fields{
		"label":      result.Label,
		"confidence": result.ConfidencePercent,
		"duration":   pcm.Duration.Seconds(),
	})

	if userID != "" && a.store != nil {
		if _, err := a.store.Record(userID, result.Label, result.ConfidencePercent, a.now().UTC()); err != nil {
			// Recording is best effort; the analysis itself succeeded
			logger.Warn("Failed to record history entry", logging.Fields{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	return result, nil
}

// History yields the recorded entries for a user, oldest first
func (a *Analyzer) History(userID string) []history.Entry {
	if a.store == nil {
		return nil
	}

	var entries []history.Entry
	for entry := range a.store.List(userID) {
		entries = append(entries, entry)
	}
	return entries
}
