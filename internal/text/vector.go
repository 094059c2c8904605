package text

import "math"

// Vector is a sparse row of a feature matrix. Indices are strictly increasing.
type Vector struct {
	Index []int     `json:"index"`
	Value []float64 `json:"value"`
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Index)
}

// Dot returns the dot product with a dense vector.
func (v Vector) Dot(w []float64) float64 {
	sum := 0.0
	for i, idx := range v.Index {
		if idx < len(w) {
			sum += v.Value[i] * w[idx]
		}
	}
	return sum
}

// DotSparse returns the dot product of two sparse vectors.
func (v Vector) DotSparse(u Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Index) && j < len(u.Index) {
		switch {
		case v.Index[i] == u.Index[j]:
			sum += v.Value[i] * u.Value[j]
			i++
			j++
		case v.Index[i] < u.Index[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// SquaredNorm returns the squared euclidean norm.
func (v Vector) SquaredNorm() float64 {
	sum := 0.0
	for _, x := range v.Value {
		sum += x * x
	}
	return sum
}

// AddTo adds scale*v to the dense vector w.
func (v Vector) AddTo(w []float64, scale float64) {
	for i, idx := range v.Index {
		w[idx] += scale * v.Value[i]
	}
}

// Dense expands the vector to the given dimension.
func (v Vector) Dense(dim int) []float64 {
	d := make([]float64, dim)
	for i, idx := range v.Index {
		if idx < dim {
			d[idx] = v.Value[i]
		}
	}
	return d
}

func (v Vector) normalize() Vector {
	norm := math.Sqrt(v.SquaredNorm())
	if norm == 0 {
		return v
	}
	for i := range v.Value {
		v.Value[i] /= norm
	}
	return v
}
