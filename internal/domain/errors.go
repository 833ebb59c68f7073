package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidSceneGraph = errors.New("invalid scene graph")
	ErrCompositing       = errors.New("compositing failed")
	ErrSynthesisFailure  = errors.New("synthesis failure")
	ErrScoringFailure    = errors.New("scoring failure")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrProviderFailure   = errors.New("provider failure")
)
