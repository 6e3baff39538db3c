package scoring

// Weights are the fusion weights for the three ranking signals. They must
// sum to 1.0 once normalized against signal availability.
type Weights struct {
	Lexical float64 `json:"lexical"`
	Vector  float64 `json:"vector"`
	Graph   float64 `json:"graph"`
}

// DefaultWeights returns the default fusion weights.
func DefaultWeights() Weights {
	return Weights{Lexical: 0.3, Vector: 0.5, Graph: 0.2}
}

// Availability marks which signals are structurally usable for a request.
// An unavailable signal has its weight redistributed proportionally across
// the remaining signals so they still sum to 1.0.
type Availability struct {
	Lexical bool
	Vector  bool
	Graph   bool
}

// Normalize redistributes the weights of unavailable signals. If no signal
// is available, the zero value is returned.
func (w Weights) Normalize(avail Availability) Weights {
	var total float64
	if avail.Lexical {
		total += w.Lexical
	}
	if avail.Vector {
		total += w.Vector
	}
	if avail.Graph {
		total += w.Graph
	}
	if total == 0 {
		return Weights{}
	}

	var out Weights
	if avail.Lexical {
		out.Lexical = w.Lexical / total
	}
	if avail.Vector {
		out.Vector = w.Vector / total
	}
	if avail.Graph {
		out.Graph = w.Graph / total
	}
	return out
}

// ClampUnit clips a raw similarity to [0,1]. Cosine similarity can be
// negative; negative values carry no ranking signal here and clamp to 0.
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
