package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFloat32_LengthAndCapacity(t *testing.T) {
	buf := GetFloat32(100)
	assert.Len(t, buf, 100)
	assert.GreaterOrEqual(t, cap(buf), 1024)
	PutFloat32(buf)
}

func TestGetFloat32_LargeSizeClassRounding(t *testing.T) {
	buf := GetFloat32(1025)
	assert.Len(t, buf, 1025)
	assert.GreaterOrEqual(t, cap(buf), 2048)
	PutFloat32(buf)
}

func TestPutFloat32_NilIsSafe(t *testing.T) {
	assert.NotPanics(t, func() { PutFloat32(nil) })
}

func TestGetFloat32_ReuseAfterPut(t *testing.T) {
	a := GetFloat32(2048)
	PutFloat32(a)
	b := GetFloat32(2000)
	assert.Len(t, b, 2000)
	PutFloat32(b)
}
