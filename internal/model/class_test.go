package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConsumerClass(t *testing.T) {
	c, err := ParseConsumerClass("grupo_a_azul")
	require.NoError(t, err)
	assert.Equal(t, ClassGrupoABlue, c)
	assert.True(t, c.IsGrupoA())

	_, err = ParseConsumerClass("grupo_c")
	assert.Error(t, err)
}

func TestRemoteOrderRank(t *testing.T) {
	assert.Equal(t, 0, ClassGrupoB.Rank())
	assert.Equal(t, 1, ClassGrupoAGreen.Rank())
	assert.Equal(t, 2, ClassGrupoABlue.Rank())
	assert.Equal(t, 3, ConsumerClass("x").Rank())
}

func TestParseModality(t *testing.T) {
	for in, want := range map[string]Modality{"verde": ModalityGreen, "green": ModalityGreen, "azul": ModalityBlue, "blue": ModalityBlue} {
		m, err := ParseModality(in)
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}
	_, err := ParseModality("amarela")
	assert.Error(t, err)
	assert.Equal(t, ClassGrupoABlue, ModalityBlue.Class())
	assert.Equal(t, ClassGrupoAGreen, ModalityGreen.Class())
}
