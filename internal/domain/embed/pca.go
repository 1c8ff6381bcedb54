package embed

import (
	"math"
	"sort"
)

const (
	jacobiMaxSweeps = 100
	jacobiTolerance = 1e-12
)

func sqrt(v float64) float64 { return math.Sqrt(v) }

// principalComponents returns the top nComp eigenvectors of the sample
// covariance of the (already standardized) matrix, ordered by descending
// eigenvalue. Each returned row is one unit-length component. The sign of
// every component is fixed so its largest-magnitude coefficient is positive,
// which makes fits reproducible across runs.
func principalComponents(standardized [][]float64, nComp int) [][]float64 {
	cov := covariance(standardized)
	values, vectors := jacobiEigen(cov)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	components := make([][]float64, nComp)
	for c := 0; c < nComp; c++ {
		col := order[c]
		comp := make([]float64, len(vectors))
		maxAbs, maxIdx := 0.0, 0
		for j := range vectors {
			comp[j] = vectors[j][col]
			if a := math.Abs(comp[j]); a > maxAbs {
				maxAbs, maxIdx = a, j
			}
		}
		if comp[maxIdx] < 0 {
			for j := range comp {
				comp[j] = -comp[j]
			}
		}
		components[c] = comp
	}
	return components
}

// covariance computes the sample covariance matrix (divisor n-1; n when only
// a single row is available).
func covariance(matrix [][]float64) [][]float64 {
	n := len(matrix)
	d := len(matrix[0])
	divisor := float64(n - 1)
	if divisor < 1 {
		divisor = 1
	}
	cov := make([][]float64, d)
	for i := range cov {
		cov[i] = make([]float64, d)
	}
	for _, row := range matrix {
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				cov[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			cov[i][j] /= divisor
			cov[j][i] = cov[i][j]
		}
	}
	return cov
}

// jacobiEigen diagonalizes a symmetric matrix with cyclic Jacobi rotations.
// It returns the eigenvalues and the matrix of eigenvectors (one per column).
// The feature dimensionality here is tiny, so the O(d^3) sweeps are cheap.
func jacobiEigen(m [][]float64) ([]float64, [][]float64) {
	d := len(m)
	a := make([][]float64, d)
	for i := range a {
		a[i] = make([]float64, d)
		copy(a[i], m[i])
	}
	v := make([][]float64, d)
	for i := range v {
		v[i] = make([]float64, d)
		v[i][i] = 1
	}

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < d; i++ {
			for j := i + 1; j < d; j++ {
				off += a[i][j] * a[i][j]
			}
		}
		if off < jacobiTolerance {
			break
		}
		for p := 0; p < d; p++ {
			for q := p + 1; q < d; q++ {
				if math.Abs(a[p][q]) < jacobiTolerance {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c
				rotate(a, v, p, q, c, s)
			}
		}
	}

	values := make([]float64, d)
	for i := 0; i < d; i++ {
		values[i] = a[i][i]
	}
	return values, v
}

// rotate applies one Jacobi rotation to a and accumulates it into v.
func rotate(a, v [][]float64, p, q int, c, s float64) {
	d := len(a)
	for k := 0; k < d; k++ {
		akp, akq := a[k][p], a[k][q]
		a[k][p] = c*akp - s*akq
		a[k][q] = s*akp + c*akq
	}
	for k := 0; k < d; k++ {
		apk, aqk := a[p][k], a[q][k]
		a[p][k] = c*apk - s*aqk
		a[q][k] = s*apk + c*aqk
	}
	for k := 0; k < d; k++ {
		vkp, vkq := v[k][p], v[k][q]
		v[k][p] = c*vkp - s*vkq
		v[k][q] = s*vkp + c*vkq
	}
}
