package onnx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageTensor(t *testing.T) {
	data := make([]float32, 3*4*5)
	ten, err := NewImageTensor(data, 3, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 5}, ten.Shape)
	assert.NoError(t, VerifyImageTensor(ten))
}

func TestNewImageTensor_LengthMismatch(t *testing.T) {
	_, err := NewImageTensor(make([]float32, 10), 3, 4, 5)
	assert.Error(t, err)
}

func TestNewImageTensor_NilData(t *testing.T) {
	_, err := NewImageTensor(nil, 3, 4, 5)
	assert.Error(t, err)
}

func TestValidateNCHW(t *testing.T) {
	assert.NoError(t, ValidateNCHW([]int64{1, 3, 32, 32}))
	assert.Error(t, ValidateNCHW([]int64{1, 3, 32}))
	assert.Error(t, ValidateNCHW([]int64{1, 3, 0, 32}))
}
