package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestJSONColumn_Value(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		col     JSONColumn[sample]
		wantVal any
	}{
		{
			name:    "有效值",
			col:     NewJSONColumn(sample{Name: "a", Score: 1.5}),
			wantVal: `{"name":"a","score":1.5}`,
		},
		{
			name:    "无效值写入NULL",
			col:     JSONColumn[sample]{},
			wantVal: nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			val, err := tc.col.Value()
			require.NoError(t, err)
			assert.Equal(t, tc.wantVal, val)
		})
	}
}

func TestJSONColumn_Scan(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		src       any
		wantCol   JSONColumn[[]int64]
		assertErr assert.ErrorAssertionFunc
	}{
		{
			name:      "字节切片",
			src:       []byte(`[1,2,3]`),
			wantCol:   NewJSONColumn([]int64{1, 2, 3}),
			assertErr: assert.NoError,
		},
		{
			name:      "字符串",
			src:       `[4]`,
			wantCol:   NewJSONColumn([]int64{4}),
			assertErr: assert.NoError,
		},
		{
			name:      "NULL",
			src:       nil,
			wantCol:   JSONColumn[[]int64]{},
			assertErr: assert.NoError,
		},
		{
			name:      "不支持的类型",
			src:       123,
			assertErr: assert.Error,
		},
		{
			name:      "非法JSON",
			src:       `[1,`,
			assertErr: assert.Error,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var col JSONColumn[[]int64]
			err := col.Scan(tc.src)
			tc.assertErr(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantCol, col)
		})
	}
}
