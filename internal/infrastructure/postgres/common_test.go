package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullableIDMapsEmptyToNull(t *testing.T) {
	assert.Nil(t, nullableID(""))
	assert.Equal(t, "5f0c3f9e-0000-0000-0000-000000000001", nullableID("5f0c3f9e-0000-0000-0000-000000000001"))
}

func TestFromNullable(t *testing.T) {
	assert.Equal(t, "", fromNullable(nil))
	id := "5f0c3f9e-0000-0000-0000-000000000001"
	assert.Equal(t, id, fromNullable(&id))
}

func TestFilePathMapsEmptyString(t *testing.T) {
	assert.True(t, filePath("").IsEmpty())
	assert.Equal(t, "songs/u/track.mp3", filePath("songs/u/track.mp3").Value())
}
