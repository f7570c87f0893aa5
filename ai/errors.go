package ai

import "errors"

// ErrEmptyCompletion indicates the provider returned no usable text.
var ErrEmptyCompletion = errors.New("ai: provider returned empty completion")
