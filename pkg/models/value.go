package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a normalized record value. Every value stored in a
// Record's Data map is one of these kinds after normalization.
type Kind int

const (
	// KindNull marks an absent value.
	KindNull Kind = iota
	// KindInteger covers all signed integer widths, widened to int64.
	KindInteger
	// KindReal covers floating point values, widened to float64.
	KindReal
	// KindText covers string values.
	KindText
	// KindBool covers boolean values.
	KindBool
	// KindTemporal covers timestamps and dates.
	KindTemporal
	// KindUUID covers uuid and timeuuid values.
	KindUUID
	// KindOpaque covers values rendered to their string form because no
	// closer kind applies.
	KindOpaque
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTemporal:
		return "temporal"
	case KindUUID:
		return "uuid"
	default:
		return "opaque"
	}
}

// Normalize converts a driver-native value into its canonical Go
// representation. Integer widths widen to int64, float32 widens to
// float64, and values with no closer representation are rendered to
// their string form.
func Normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case float32:
		return float64(x)
	case float64:
		return x
	case bool:
		return x
	case string:
		return x
	case time.Time:
		return x
	case uuid.UUID:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

// KindOf reports the kind of a value previously passed through Normalize.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case int64:
		return KindInteger
	case float64:
		return KindReal
	case string:
		return KindText
	case bool:
		return KindBool
	case time.Time:
		return KindTemporal
	case uuid.UUID:
		return KindUUID
	default:
		return KindOpaque
	}
}
