package priceproxy

import (
	"strings"

	"github.com/pkg/errors"
)

// FeedType selects between a single source feed and a two source transform
// feed whose prices get multiplied together.
type FeedType uint8

const (
	FeedTypeDirect FeedType = iota
	FeedTypeTransform
)

func (t FeedType) String() string {
	if t == FeedTypeTransform {
		return "Transform"
	}
	return "Direct"
}

func FeedTypeFromString(value string) (FeedType, error) {
	switch strings.ToLower(value) {
	case "direct", "f":
		return FeedTypeDirect, nil
	case "transform", "p":
		return FeedTypeTransform, nil
	}
	return FeedTypeDirect, errors.Errorf("`%s` is not a valid feed type", value)
}

func feedTypeFromRaw(value uint8) FeedType {
	if value > uint8(FeedTypeTransform) {
		return FeedTypeDirect
	}
	return FeedType(value)
}
