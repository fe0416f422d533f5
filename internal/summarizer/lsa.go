package summarizer

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// termSmoothing is the floor of a normalized term frequency.
const termSmoothing = 0.4

var errSVD = errors.New("singular value decomposition failed")

// rankSentences scores every sentence by its weight in the latent topic space
// of the term-by-sentence matrix. stem maps a normalized word to its term;
// words in stop are left out of the dictionary. A nil result with no error
// means the dictionary came out empty.
func rankSentences(sents []Sentence, stem func(string) string, stop map[string]struct{}) ([]float64, error) {
	dictionary := make(map[string]int)
	for _, s := range sents {
		for _, w := range s.Words {
			if _, skip := stop[w]; skip {
				continue
			}
			term := stem(w)
			if _, ok := dictionary[term]; !ok {
				dictionary[term] = len(dictionary)
			}
		}
	}
	if len(dictionary) == 0 || len(sents) == 0 {
		return nil, nil
	}

	matrix := termFrequencies(sents, dictionary, stem)

	var svd mat.SVD
	if ok := svd.Factorize(matrix, mat.SVDThin); !ok {
		return nil, errSVD
	}
	sigma := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	// No dimension reduction: every topic contributes, weighted by sigma^2.
	powered := make([]float64, len(sigma))
	for i, s := range sigma {
		powered[i] = s * s
	}

	ranks := make([]float64, len(sents))
	for j := range sents {
		var sum float64
		for i, p := range powered {
			x := v.At(j, i)
			sum += p * x * x
		}
		ranks[j] = math.Sqrt(sum)
	}
	return ranks, nil
}

// termFrequencies builds the terms x sentences matrix. Each column is scaled
// by its largest count and smoothed to termSmoothing + (1-termSmoothing)*tf.
func termFrequencies(sents []Sentence, dictionary map[string]int, stem func(string) string) *mat.Dense {
	rows, cols := len(dictionary), len(sents)
	m := mat.NewDense(rows, cols, nil)

	for col, s := range sents {
		for _, w := range s.Words {
			row, ok := dictionary[stem(w)]
			if !ok {
				continue
			}
			m.Set(row, col, m.At(row, col)+1)
		}
	}

	for col := 0; col < cols; col++ {
		var maxFreq float64
		for row := 0; row < rows; row++ {
			maxFreq = math.Max(maxFreq, m.At(row, col))
		}
		if maxFreq == 0 {
			continue
		}
		for row := 0; row < rows; row++ {
			tf := m.At(row, col) / maxFreq
			m.Set(row, col, termSmoothing+(1-termSmoothing)*tf)
		}
	}
	return m
}

// bestSentences picks the count highest ranked sentences and returns them in
// document order. Equal ranks keep document order.
func bestSentences(sents []Sentence, ranks []float64, count int) []Sentence {
	if count >= len(sents) {
		return sents
	}

	order := make([]int, len(sents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranks[order[a]] > ranks[order[b]]
	})

	picked := order[:count]
	sort.Ints(picked)

	out := make([]Sentence, 0, count)
	for _, i := range picked {
		out = append(out, sents[i])
	}
	return out
}
