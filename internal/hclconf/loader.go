package hclconf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/crossgridgo/internal/config"
	"github.com/vk/crossgridgo/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the profile at path, overlays it on the config defaults
// and validates the result. A profile must describe a complete run;
// flag overrides are applied by the caller afterwards.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	log := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing profile %s: %w", path, diags)
	}

	var root profileFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding profile %s: %w", path, diags)
	}

	model := config.Default()
	if err := overlay(&root, model); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	log.Debug("Profile loaded.",
		"path", path,
		"grid", fmt.Sprintf("%dx%d", model.Grid.Height, model.Grid.Width),
		"theme", model.Theme.Title)
	return model, nil
}

// overlay copies every value the profile sets onto the model, leaving
// defaults in place for everything it omits.
func overlay(root *profileFile, model *config.Model) error {
	if root.Seed != 0 {
		model.Seed = root.Seed
	}
	if root.RetryLimit != 0 {
		model.RetryLimit = root.RetryLimit
	}
	if root.Parallelism != 0 {
		model.Parallelism = root.Parallelism
	}
	if root.OutputDir != "" {
		model.OutputDir = root.OutputDir
	}

	if g := root.Grid; g != nil {
		model.Grid.Height = g.Height
		model.Grid.Width = g.Width
		if g.CompletionTarget != 0 {
			model.Grid.CompletionTarget = g.CompletionTarget
		}
	}

	if b := root.Blocker; b != nil {
		if b.Enabled != nil {
			model.Blocker.Enabled = *b.Enabled
		}
		model.Blocker.Row = b.Row
		model.Blocker.Col = b.Col
		model.Blocker.Height = b.Height
		model.Blocker.Width = b.Width
		if b.MinSize != 0 {
			model.Blocker.MinSize = b.MinSize
		}
		if b.MaxSize != 0 {
			model.Blocker.MaxSize = b.MaxSize
		}
	}

	if d := root.Dictionary; d != nil {
		if d.Path != "" {
			model.Dictionary.Path = d.Path
		}
		if d.MinLength != 0 {
			model.Dictionary.MinLength = d.MinLength
		}
		if d.MaxLength != 0 {
			model.Dictionary.MaxLength = d.MaxLength
		}
		if d.MinFrequency != 0 {
			model.Dictionary.MinFrequency = d.MinFrequency
		}
		if d.MaxEntriesPerLength != 0 {
			model.Dictionary.MaxEntriesPerLength = d.MaxEntriesPerLength
		}
		if d.UseCache != nil {
			model.Dictionary.UseCache = *d.UseCache
		}
	}

	if th := root.Theme; th != nil {
		model.Theme.Title = th.Title
		if th.Description != "" {
			model.Theme.Description = th.Description
		}
		if th.Difficulty != "" {
			model.Theme.Difficulty = th.Difficulty
		}
		if th.Language != "" {
			model.Theme.Language = th.Language
		}
		if th.MinCoverage != 0 {
			model.Theme.MinCoverage = th.MinCoverage
		}
		if th.MaxRatio != 0 {
			model.Theme.MaxRatio = th.MaxRatio
		}
		if th.RequestSize != 0 {
			model.Theme.RequestSize = th.RequestSize
		}
		if th.CacheDir != "" {
			model.Theme.CacheDir = th.CacheDir
		}
		if th.Model != "" {
			model.Theme.Model = th.Model
		}
		if len(th.CustomWords) > 0 {
			model.Theme.CustomWords = th.CustomWords
		}
	}

	if f := root.Fill; f != nil {
		if f.TimeoutSeconds != 0 {
			model.Fill.TimeoutSeconds = f.TimeoutSeconds
		}
		if f.MaxCandidates != 0 {
			model.Fill.MaxCandidates = f.MaxCandidates
		}
		if f.FallbackFraction != 0 {
			model.Fill.FallbackFraction = f.FallbackFraction
		}
		if f.PreferTheme != nil {
			model.Fill.PreferTheme = *f.PreferTheme
		}
	}

	for _, block := range root.Words {
		list, err := decodeWordList(block)
		if err != nil {
			return err
		}
		model.Words = append(model.Words, list)
	}
	return nil
}

var validTiers = map[string]bool{"EASY": true, "MEDIUM": true, "HARD": true}

// decodeWordList turns a words block into a named bucket. Attribute
// names are difficulty tiers; values must be lists of strings.
func decodeWordList(block *wordsBlock) (config.WordList, error) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return config.WordList{}, fmt.Errorf("word list %q: %w", block.Name, diags)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	tiers := make(map[string][]string, len(attrs))
	for _, name := range names {
		tier := strings.ToUpper(name)
		if !validTiers[tier] {
			return config.WordList{}, fmt.Errorf(
				"word list %q: unknown tier %q: use easy, medium or hard", block.Name, name)
		}
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return config.WordList{}, fmt.Errorf("word list %q, tier %s: %w", block.Name, name, diags)
		}
		words, err := stringSlice(val)
		if err != nil {
			return config.WordList{}, fmt.Errorf("word list %q, tier %s: %w", block.Name, name, err)
		}
		tiers[tier] = words
	}
	return config.WordList{Name: block.Name, Tiers: tiers}, nil
}

func stringSlice(val cty.Value) ([]string, error) {
	if val.IsNull() || !(val.Type().IsTupleType() || val.Type().IsListType()) {
		return nil, errors.New("expected a list of strings")
	}
	out := make([]string, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, ele := it.Element()
		if ele.IsNull() || !ele.Type().Equals(cty.String) {
			return nil, errors.New("expected a list of strings")
		}
		out = append(out, ele.AsString())
	}
	return out, nil
}
