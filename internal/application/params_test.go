package application

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwautomate-mcp-server/internal/domain"
)

func requireInvalidParams(t *testing.T, err error) {
	t.Helper()
	var rpcErr *domain.Error
	require.True(t, errors.As(err, &rpcErr), "expected *domain.Error, got %v", err)
	assert.Equal(t, domain.InvalidParams, rpcErr.Code)
}

func TestGetIntParam(t *testing.T) {
	n, err := getIntParam(map[string]interface{}{"id": float64(42)}, "id", true)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = getIntParam(map[string]interface{}{"id": 7}, "id", true)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = getIntParam(map[string]interface{}{}, "id", false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = getIntParam(map[string]interface{}{}, "id", true)
	requireInvalidParams(t, err)
	assert.Contains(t, err.Error(), "missing required parameter: id")

	_, err = getIntParam(map[string]interface{}{"id": nil}, "id", true)
	requireInvalidParams(t, err)

	_, err = getIntParam(map[string]interface{}{"id": "42"}, "id", false)
	requireInvalidParams(t, err)

	_, err = getIntParam(map[string]interface{}{"id": 4.2}, "id", false)
	requireInvalidParams(t, err)
}

func TestGetIntParam_RejectsOutOfRangeNumbers(t *testing.T) {
	for _, v := range []float64{1e300, -1e300, 9223372036854775808, math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := getIntParam(map[string]interface{}{"id": v}, "id", true)
		requireInvalidParams(t, err)
	}

	n, err := getIntParam(map[string]interface{}{"id": float64(1 << 53)}, "id", true)
	require.NoError(t, err)
	assert.Equal(t, 1<<53, n)

	_, err = getIntSliceParam(map[string]interface{}{"ids": []interface{}{float64(1), 1e300}}, "ids")
	requireInvalidParams(t, err)
}

func TestGetOptionalIntParam(t *testing.T) {
	v, err := getOptionalIntParam(map[string]interface{}{}, "client_id")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = getOptionalIntParam(map[string]interface{}{"client_id": float64(0)}, "client_id")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 0, *v)
}

func TestGetStringParams(t *testing.T) {
	s, err := getStringParam(map[string]interface{}{"q": "srv"}, "q", true)
	require.NoError(t, err)
	assert.Equal(t, "srv", s)

	_, err = getStringParam(map[string]interface{}{"q": 1.0}, "q", false)
	requireInvalidParams(t, err)

	p, err := getOptionalStringParam(map[string]interface{}{"name": ""}, "name")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "", *p)

	p, err = getOptionalStringParam(map[string]interface{}{}, "name")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetBoolParam(t *testing.T) {
	b, err := getBoolParam(map[string]interface{}{"force": true}, "force")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = getBoolParam(map[string]interface{}{}, "force")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = getBoolParam(map[string]interface{}{"force": "yes"}, "force")
	requireInvalidParams(t, err)
}

func TestGetIntSliceParam(t *testing.T) {
	ids, err := getIntSliceParam(map[string]interface{}{"ids": []interface{}{float64(1), 2}}, "ids")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)

	ids, err = getIntSliceParam(map[string]interface{}{"ids": []interface{}{}}, "ids")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	ids, err = getIntSliceParam(map[string]interface{}{}, "ids")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = getIntSliceParam(map[string]interface{}{"ids": []interface{}{"a"}}, "ids")
	requireInvalidParams(t, err)
}

func TestGetStringMapParam(t *testing.T) {
	m, err := getStringMapParam(map[string]interface{}{"p": map[string]interface{}{"a": "1"}}, "p")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, m)

	_, err = getStringMapParam(map[string]interface{}{"p": map[string]interface{}{"a": 1.0}}, "p")
	requireInvalidParams(t, err)

	_, err = getStringMapParam(map[string]interface{}{"p": []interface{}{}}, "p")
	requireInvalidParams(t, err)
}

func TestGetEnumParam(t *testing.T) {
	s, err := getEnumParam(map[string]interface{}{"status": "online"}, "status", "online", "offline", "all")
	require.NoError(t, err)
	assert.Equal(t, "online", s)

	s, err = getEnumParam(map[string]interface{}{}, "status", "online")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = getEnumParam(map[string]interface{}{"status": "ONLINE"}, "status", "online")
	requireInvalidParams(t, err)
}

func TestProperty_PagingDefaults(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a non-zero limit is passed through, zero becomes the default", prop.ForAll(
		func(limit int, skip int) bool {
			got, gotSkip, err := getPaging(map[string]interface{}{
				"limit": float64(limit),
				"skip":  float64(skip),
			}, true)
			if err != nil {
				return false
			}
			want := limit
			if limit == 0 {
				want = defaultLimit
			}
			return got == want && gotSkip == skip
		},
		gen.IntRange(-10, 1000),
		gen.IntRange(0, 10000),
	))

	properties.Property("missing limit and skip use defaults", prop.ForAll(
		func(withSkip bool) bool {
			limit, skip, err := getPaging(map[string]interface{}{}, withSkip)
			return err == nil && limit == defaultLimit && skip == 0
		},
		gen.Bool(),
	))

	properties.Property("skip is ignored when not supported", prop.ForAll(
		func(skip int) bool {
			_, got, err := getPaging(map[string]interface{}{"skip": float64(skip)}, false)
			return err == nil && got == 0
		},
		gen.IntRange(1, 1000),
	))

	properties.TestingRun(t)
}

func TestProperty_WholeNumbersCoerce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("JSON numbers with no fraction decode to the same int", prop.ForAll(
		func(n int) bool {
			got, err := getIntParam(map[string]interface{}{"id": float64(n)}, "id", true)
			return err == nil && got == n
		},
		gen.IntRange(-1<<31, 1<<31),
	))

	properties.TestingRun(t)
}
