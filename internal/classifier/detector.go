package classifier

import (
	"context"
	"strings"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// Detector runs the detection pipeline over a fixed, ordered list of
// strategies: keyword rules first, then exact cache lookup, then fuzzy
// match, then (if configured) AI. The first strategy to match wins; a
// keyword hit never consults the cache.
type Detector struct {
	strategies []TypeStrategy
	logger     logging.Logger
}

// NewDetector creates a detector over the given strategies, evaluated in
// order.
func NewDetector(logger logging.Logger, strategies ...TypeStrategy) *Detector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Detector{strategies: strategies, logger: logger}
}

// DetectTypes classifies an expense description into a (main type, sub type)
// pair. The empty pair means "unclassified" and is a normal result the
// caller must handle: classification is an enhancement, never a precondition
// for logging an expense, so this method cannot fail.
func (d *Detector) DetectTypes(desc string) (mainType, subType string) {
	return d.DetectTypesContext(context.Background(), desc)
}

// DetectTypesContext is DetectTypes with a caller-supplied context for the
// strategies that do I/O (the AI tier).
func (d *Detector) DetectTypesContext(ctx context.Context, desc string) (mainType, subType string) {
	// Classification must never take the caller down with it.
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithField("panic", r).Error("Type detection failed, returning unclassified")
			mainType, subType = "", ""
		}
	}()

	descLower := strings.ToLower(desc)
	for _, strategy := range d.strategies {
		pair, ok := strategy.Detect(ctx, descLower)
		if !ok {
			continue
		}
		d.logger.WithFields(
			logging.Field{Key: "strategy", Value: strategy.Name()},
			logging.Field{Key: "desc", Value: desc},
			logging.Field{Key: "main_type", Value: pair.MainType},
			logging.Field{Key: "sub_type", Value: pair.SubType},
		).Debug("Description classified")
		return pair.MainType, pair.SubType
	}
	return "", ""
}

// Detect is DetectTypesContext returning the pair form.
func (d *Detector) Detect(ctx context.Context, desc string) models.TypePair {
	mainType, subType := d.DetectTypesContext(ctx, desc)
	return models.TypePair{MainType: mainType, SubType: subType}
}
