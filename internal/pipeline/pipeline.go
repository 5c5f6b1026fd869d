package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"summaryd/internal/generate"
	"summaryd/internal/stream"
	"summaryd/internal/translate"
	"summaryd/pkg/types"
)

// Config fixes the per-deployment behavior of the pipeline.
type Config struct {
	// SourceLang is the language of incoming text (NLLB tag).
	SourceLang string
	// TargetLang is the generation language the input is translated into.
	TargetLang string
	// StopMarker ends generation; it is also the sentinel phrase the unit
	// segmenter suppresses. Must be non-empty.
	StopMarker string
	// Bullets is the number of summary bullets requested in the prompt.
	Bullets int
	// PromptBuilder defaults to SummaryPrompt when nil.
	PromptBuilder PromptBuilder
}

// Pipeline wires the segmentation/accumulation/transform chain around the two
// model services. It holds references to shared, thread-safe service handles;
// all per-request state lives on the stack of Run.
type Pipeline struct {
	translator translate.Translator
	generator  generate.Source
	cfg        Config
	log        zerolog.Logger
}

// New validates cfg and constructs a Pipeline. Configuration problems are
// fatal here, never at stream time.
func New(tr translate.Translator, gen generate.Source, cfg Config, log zerolog.Logger) (*Pipeline, error) {
	if tr == nil || gen == nil {
		return nil, ErrConfig("translator and generator are required")
	}
	if cfg.StopMarker == "" {
		return nil, ErrConfig("stop marker must not be empty")
	}
	if !translate.ValidTag(cfg.SourceLang) {
		return nil, ErrConfig("invalid source language tag: " + cfg.SourceLang)
	}
	if !translate.ValidTag(cfg.TargetLang) {
		return nil, ErrConfig("invalid target language tag: " + cfg.TargetLang)
	}
	if cfg.Bullets <= 0 {
		cfg.Bullets = 5
	}
	if cfg.PromptBuilder == nil {
		cfg.PromptBuilder = SummaryPrompt
	}
	return &Pipeline{translator: tr, generator: gen, cfg: cfg, log: log}, nil
}

// separatorBanner marks the transition from translated input to generated
// output in the client stream. Purely cosmetic.
var separatorBanner = "\n" + strings.Repeat("-", 50) + " GENERATION " + strings.Repeat("-", 50) + "\n"

// Run executes one stream session: translate input, emit separator, generate
// and segment the summary, optionally back-translate per unit. Every segment
// is written (and flushed) the moment it is complete. A failure in any phase
// aborts the remaining phases; bytes already written stand.
func (p *Pipeline) Run(ctx context.Context, req types.SummarizeRequest, w io.Writer, flush func()) error {
	if err := ValidateRequest(req); err != nil {
		return err
	}
	sid := SessionID(ctx)
	if sid == "" {
		sid = NewSessionID()
	}
	log := p.log.With().Str("session_id", sid).Logger()

	writeSeg := func(seg string) error {
		if _, err := io.WriteString(w, seg); err != nil {
			return err
		}
		if flush != nil {
			flush()
		}
		return nil
	}

	translation, err := p.translateInput(ctx, req.Text, writeSeg)
	if err != nil {
		log.Error().Err(err).Msg("input translation failed")
		return fmt.Errorf("translating input: %w", err)
	}

	if err := writeSeg(separatorBanner); err != nil {
		return err
	}

	if err := p.generateSummary(ctx, translation, req, writeSeg); err != nil {
		log.Error().Err(err).Bool("back_translate", req.BackTranslate).Msg("generation failed")
		return fmt.Errorf("generating summary: %w", err)
	}
	log.Debug().Msg("session complete")
	return nil
}

// translateInput streams each input sentence through the translator, emitting
// labeled segments, and returns the space-joined translation used as the
// generation prompt text. Empty input produces no segments.
func (p *Pipeline) translateInput(ctx context.Context, text string, writeSeg func(string) error) (string, error) {
	sentences := stream.SplitSentences(text)
	src := stream.WithContext(ctx, stream.FromSlice(sentences))
	stage := stream.TransformEach(src, func(s string) (string, error) {
		translateCallsTotal.Inc()
		return p.translator.Translate(ctx, s, p.cfg.SourceLang, p.cfg.TargetLang)
	})

	var joined []string
	for {
		t, err := stage.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if t == "" {
			continue
		}
		if err := writeSeg("TRANSLATION: " + t + "\n"); err != nil {
			return "", err
		}
		joined = append(joined, t)
	}
	return strings.Join(joined, " "), nil
}

// generateSummary runs the accumulator -> unit segmenter chain over the
// generation fragment stream and emits one segment per completed unit,
// back-translating first when requested.
func (p *Pipeline) generateSummary(ctx context.Context, translation string, req types.SummarizeRequest, writeSeg func(string) error) error {
	prompt := p.cfg.PromptBuilder(translation, p.cfg.Bullets, p.cfg.StopMarker)
	frags, err := p.generator.Open(ctx, prompt, resolveParams(req, p.cfg.StopMarker))
	if err != nil {
		return err
	}
	defer frags.Close()

	acc, err := stream.NewAccumulator(stream.WithContext(ctx, countFragments(frags)), p.cfg.StopMarker)
	if err != nil {
		return err
	}
	var units stream.Source = stream.NewUnitSegmenter(acc, p.cfg.StopMarker)
	if req.BackTranslate {
		units = stream.TransformEach(units, func(u string) (string, error) {
			translateCallsTotal.Inc()
			return p.translator.Translate(ctx, u, p.cfg.TargetLang, p.cfg.SourceLang)
		})
	}

	for {
		u, err := units.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if u == "" {
			continue
		}
		seg := u + "\n"
		if !req.BackTranslate {
			seg = stream.Bullet + " " + seg
		}
		if err := writeSeg(seg); err != nil {
			return err
		}
		unitsEmittedTotal.Inc()
	}
}

// fragmentCounter instruments the raw fragment stream.
type fragmentCounter struct {
	src generate.FragmentStream
}

func countFragments(src generate.FragmentStream) stream.Source {
	return &fragmentCounter{src: src}
}

func (f *fragmentCounter) Next() (string, error) {
	frag, err := f.src.Next()
	if err == nil {
		generateFragmentsTotal.Inc()
	}
	return frag, err
}
