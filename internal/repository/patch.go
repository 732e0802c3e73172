package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ErrInvalidPatch indicates a merge patch that is not valid JSON or that
// produces a document which no longer decodes into the entity.
var ErrInvalidPatch = errors.New("repository: invalid patch")

// orderKeeper is implemented by entities whose JSON object key order is
// meaningful; the merge step re-encodes objects with sorted keys.
type orderKeeper[T any] interface {
	KeepOrderOf(prev T) T
}

// Patch applies an RFC 7386 JSON merge patch to the entity with id and stores
// the result. The id cannot be changed through the patch.
func Patch[T Entity[T]](ctx context.Context, st Store[T], id int, patch []byte) (T, error) {
	var zero T
	current, err := st.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	next, err := Merge(current, patch)
	if err != nil {
		return zero, err
	}
	return st.Update(ctx, next)
}

// Merge applies patch to current without storing anything. The result keeps
// current's id.
func Merge[T Entity[T]](current T, patch []byte) (T, error) {
	var zero T
	original, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("encode current: %w", err)
	}
	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	var next T
	if err := json.Unmarshal(merged, &next); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if k, ok := any(next).(orderKeeper[T]); ok {
		next = k.KeepOrderOf(current)
	}
	return next.WithID(current.EntityID()), nil
}
