package variance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/types"
)

func TestBareVarOccurrenceReturnsPosition(t *testing.T) {
	v := &types.Var{ID: 1}
	require.Equal(t, Co, Compute(v, 1, Co))
	require.Equal(t, Contra, Compute(v, 1, Contra))
}

func TestAbsentVarIsBivariant(t *testing.T) {
	body := &types.List{Elem: types.Int}
	require.Equal(t, Bi, Compute(body, 99, Co))
}

func TestMutableContainerForcesInvariant(t *testing.T) {
	v := &types.Var{ID: 1}
	body := &types.List{Elem: v}
	require.Equal(t, Inv, Compute(body, 1, Co))
}

func TestTuplePropagatesPosition(t *testing.T) {
	v := &types.Var{ID: 1}
	body := &types.Tuple{Elems: []types.Type{v, types.Int}}
	require.Equal(t, Co, Compute(body, 1, Co))
}

func TestFunctionParamsFlip(t *testing.T) {
	v := &types.Var{ID: 1}
	body := &types.Function{Params: []types.Type{v}, Return: types.Int}
	require.Equal(t, Contra, Compute(body, 1, Co))

	retBody := &types.Function{Params: []types.Type{types.Int}, Return: v}
	require.Equal(t, Co, Compute(retBody, 1, Co))
}

func TestValidateMismatchProducesError(t *testing.T) {
	v := &types.Var{ID: 1}
	body := &types.Function{Params: []types.Type{v}, Return: types.Int}
	err := Validate("T", body, 1, Co)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "variance mismatch")
}

func TestValidateMatchSucceeds(t *testing.T) {
	v := &types.Var{ID: 1}
	body := &types.Tuple{Elems: []types.Type{v}}
	err := Validate("T", body, 1, Co)
	require.Nil(t, err)
}

func TestComposeAndFlip(t *testing.T) {
	require.Equal(t, Contra, Co.Flip())
	require.Equal(t, Contra, Compose(Co, Contra))
	require.Equal(t, Co, Compose(Co, Co))
	require.Equal(t, Inv, Compose(Inv, Co))
}
