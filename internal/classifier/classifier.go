package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"sync"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/logger"
)

// ErrUnknownKind is returned by New for unsupported classifier names.
var ErrUnknownKind = errors.New("unknown classifier kind")

// Random reports a cat for roughly half of the images.
type Random struct {
	// rnd is the pseudo-random source.
	rnd *rand.Rand
	// mu protects rnd, which is not safe for concurrent use.
	mu sync.Mutex
}

// NewRandom creates a Random classifier seeded with the provided values.
func NewRandom(seed1, seed2 uint64) *Random {
	return &Random{
		rnd: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// ContainsCat flips a coin. The image and threshold are ignored.
func (r *Random) ContainsCat(ctx context.Context, img image.Image, confidenceThreshold float32) (bool, error) {
	r.mu.Lock()
	catPresent := r.rnd.IntN(2) == 1
	r.mu.Unlock()

	logger.DebugKV(ctx, "Image classified",
		"classifier", "random",
		"bounds", img.Bounds().String(),
		"threshold", confidenceThreshold,
		"cat_present", catPresent)

	return catPresent, nil
}

// Fixed always returns the same answer.
type Fixed struct {
	// CatPresent is returned for every image.
	CatPresent bool
}

// ContainsCat returns f.CatPresent.
func (f *Fixed) ContainsCat(context.Context, image.Image, float32) (bool, error) {
	return f.CatPresent, nil
}

// Classifier is the method set shared by all classifiers in this package.
type Classifier interface {
	ContainsCat(ctx context.Context, img image.Image, confidenceThreshold float32) (bool, error)
}

// New returns the classifier named in the configuration.
//
//nolint:ireturn // Callers pick an implementation by name.
func New(kind string) (Classifier, error) {
	switch kind {
	case config.ClassifierRandom:
		return NewRandom(rand.Uint64(), rand.Uint64()), nil
	case config.ClassifierAlways:
		return &Fixed{CatPresent: true}, nil
	case config.ClassifierNever:
		return &Fixed{CatPresent: false}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
