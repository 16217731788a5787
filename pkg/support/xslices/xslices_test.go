// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package xslices

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAt(t *testing.T) {
	s := []int{10, 20, 30, 40}
	assert.Equal(t, 10, At(s, 0))
	assert.Equal(t, 40, At(s, 3))
	assert.Equal(t, 40, At(s, -1))
	assert.Equal(t, 30, At(s, -2))
}

func TestCopy(t *testing.T) {
	s := []int{1, 2, 3}
	c := Copy(s)
	assert.Equal(t, s, c)
	c[0] = 100
	assert.Equal(t, 1, s[0], "Copy must not share the backing array")

	assert.Nil(t, Copy[int](nil))
	assert.Empty(t, Copy([]int{}))
}

func TestMap(t *testing.T) {
	s := []int{1, 2, 3}
	got := Map(s, func(e int) string { return strconv.Itoa(e * 2) })
	assert.Equal(t, []string{"2", "4", "6"}, got)
}
