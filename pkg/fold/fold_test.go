// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/riddlerush/pkg/fold"
)

func TestString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Math Riddles", "math riddles"},
		{"  Défi   d'Hiver ", "defi d'hiver"},
		{"مُسابَقة", "مسابقة"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fold.String(tt.input), tt.input)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, fold.Contains("Blockchain & Crypto Quiz", "crypto"))
	assert.True(t, fold.Contains("Café Puzzles", "cafe"))
	assert.True(t, fold.Contains("Word Games", ""))
	assert.False(t, fold.Contains("Word Games", "logic"))
}
