package coogle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBM25ScoreMonotonicInTF(t *testing.T) {
	s := BM25Scorer{}
	low := s.Score(1, 20, 20, 100, 5)
	high := s.Score(5, 20, 20, 100, 5)
	if !(high > low) {
		t.Errorf("BM25 score did not increase with tf: tf=1 -> %v, tf=5 -> %v", low, high)
	}
}

func TestBM25ScoreMonotonicInDF(t *testing.T) {
	s := BM25Scorer{}
	rare := s.Score(3, 20, 20, 100, 2)
	common := s.Score(3, 20, 20, 100, 50)
	if !(rare > common) {
		t.Errorf("BM25 score did not decrease with df: df=2 -> %v, df=50 -> %v", rare, common)
	}
}

func TestBM25FinalizeIsNoOp(t *testing.T) {
	s := BM25Scorer{}
	if got := s.Finalize(0, 1.5); got != 1.5 {
		t.Errorf("Finalize(sum) = %v, want 1.5 unchanged", got)
	}
}

func TestCosineScorerDividesByMagnitude(t *testing.T) {
	c := CosineScorer{Magnitudes: []float64{2.0, 0}}
	if got := c.Finalize(0, 4.0); got != 2.0 {
		t.Errorf("Finalize(doc 0) = %v, want 2.0", got)
	}
	if got := c.Finalize(1, 4.0); got != 0 {
		t.Errorf("Finalize(zero magnitude) = %v, want 0", got)
	}
}

func TestLoadCosineScorer(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc_magnitudes.txt"), []byte("1.5\n2.25\n"), 0o644); err != nil {
		t.Fatalf("writing doc_magnitudes.txt: %v", err)
	}

	c, err := LoadCosineScorer(dir)
	if err != nil {
		t.Fatalf("LoadCosineScorer: %v", err)
	}
	if len(c.Magnitudes) != 2 || c.Magnitudes[0] != 1.5 || c.Magnitudes[1] != 2.25 {
		t.Errorf("Magnitudes = %v, want [1.5 2.25]", c.Magnitudes)
	}
}

func TestLoadCosineScorerMissingFile(t *testing.T) {
	_, err := LoadCosineScorer(t.TempDir())
	if !errors.Is(err, ErrStoreIncomplete) {
		t.Fatalf("LoadCosineScorer(missing) = %v, want ErrStoreIncomplete", err)
	}
}
