// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authority

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

var errStaleReference = errors.New("supplier no longer exists")

var reasonTemplates = map[types.SignalType]string{
	types.SignalOverrideExact:        "manual override",
	types.SignalAliasExact:           "exact match with a known alias",
	types.SignalLearningConfirmation: "previously confirmed for this name",
	types.SignalLearningRejection:    "previously rejected for this name",
	types.SignalFuzzyStrong:          "strong similarity to official name",
	types.SignalFuzzyMedium:          "moderate similarity to official name",
	types.SignalFuzzyWeak:            "weak similarity to official name",
	types.SignalAnchorUnique:         "distinctive name match",
	types.SignalAnchorGeneric:        "shared name match",
	types.SignalHistoricalFrequent:   "frequent prior use",
	types.SignalHistoricalOccasional: "occasional prior use",
}

// Reason builds the human-readable justification for a suggestion.
func Reason(primary types.SignalType, confirmations, rejections int) string {
	reason, ok := reasonTemplates[primary]
	if !ok {
		reason = "matched by " + strings.ReplaceAll(string(primary), "_", " ")
	}
	if confirmations > 0 {
		reason += fmt.Sprintf("; confirmed %s", times(confirmations))
	}
	if rejections > 0 {
		reason += fmt.Sprintf("; rejected %s", times(rejections))
	}
	return reason
}

func times(n int) string {
	if n == 1 {
		return "once"
	}
	return fmt.Sprintf("%d times", n)
}

// format turns a scored candidate into a Suggestion. Candidates whose
// supplier record is gone return errStaleReference after a warning.
func (a *Authority) format(ctx context.Context, log *zap.Logger, c *candidate) (types.Suggestion, error) {
	sup, err := a.suppliers.SupplierByID(ctx, c.id)
	if err != nil {
		log.Warn("supplier lookup failed, dropping candidate",
			zap.String("supplier_id", c.id), zap.Error(err))
		return types.Suggestion{}, errStaleReference
	}
	if sup == nil {
		log.Warn("signal references unknown supplier, dropping candidate",
			zap.String("supplier_id", c.id))
		return types.Suggestion{}, errStaleReference
	}

	levels := a.calc.Config().Levels
	return types.NewSuggestion(types.Suggestion{
		SupplierID:        sup.ID,
		OfficialName:      sup.OfficialName,
		EnglishName:       sup.EnglishName,
		Confidence:        c.confidence,
		Level:             c.level,
		Reason:            Reason(c.primarySource, c.confirmations, c.rejections),
		ConfirmationCount: c.confirmations,
		RejectionCount:    c.rejections,
		UsageCount:        sup.UsageCount,
		PrimarySource:     c.primarySource,
		SignalCount:       len(c.signals),
		IsAmbiguous:       c.ambiguous,
		RequiresConfirmation: c.ambiguous ||
			c.confidence < levels.C ||
			(c.rejections > 0 && c.confirmations == 0),
	}, levels)
}
