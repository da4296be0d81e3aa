package format

type (
	// CompressionType selects the codec applied to a serialized payload.
	CompressionType uint8
	// Kind identifies the type of a serialized object.
	Kind uint8
	// Version is the per-kind payload layout version.
	Version uint16
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	KindCase               Kind = 0x1 // KindCase is a single parameter case.
	KindSpace              Kind = 0x2 // KindSpace is a prepared parameter space.
	KindPreparedTransforms Kind = 0x3 // KindPreparedTransforms is a regression transform set.
	KindPolynomial         Kind = 0x4 // KindPolynomial is a fitted polynomial.
	KindKrigingData        Kind = 0x5 // KindKrigingData is a Kriging precomputation.
	KindKrigingModel       Kind = 0x6 // KindKrigingModel is a Kriging residual model.
	KindCompoundProxy      Kind = 0x7 // KindCompoundProxy is a polynomial plus Kriging proxy.
	KindCollection         Kind = 0x8 // KindCollection is a proxy collection.
)

// currentVersions is the version written for each kind. Readers accept any
// version up to and including the current one.
var currentVersions = map[Kind]Version{
	KindCase:               0,
	KindSpace:              0,
	KindPreparedTransforms: 0,
	KindPolynomial:         0,
	KindKrigingData:        0,
	KindKrigingModel:       0,
	KindCompoundProxy:      2,
	KindCollection:         0,
}

// CurrentVersion returns the payload version written for kind.
func CurrentVersion(k Kind) Version {
	return currentVersions[k]
}

// IsSupported reports whether a payload of kind k and version v can be read.
func IsSupported(k Kind, v Version) bool {
	cur, ok := currentVersions[k]

	return ok && v <= cur
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case KindCase:
		return "Case"
	case KindSpace:
		return "Space"
	case KindPreparedTransforms:
		return "PreparedTransforms"
	case KindPolynomial:
		return "Polynomial"
	case KindKrigingData:
		return "KrigingData"
	case KindKrigingModel:
		return "KrigingModel"
	case KindCompoundProxy:
		return "CompoundProxy"
	case KindCollection:
		return "Collection"
	default:
		return "Unknown"
	}
}
