package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineRunsStagesInOrder(t *testing.T) {
	var order []string
	record := func(name string) ProcessorFunc {
		return func(ctx *PipelineContext) *PipelineContext {
			order = append(order, name)
			return ctx
		}
	}

	p := New(record("first"), record("second"), record("third"))
	out := p.Run(&PipelineContext{Data: 0})

	require.NoError(t, out.Err)
	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPipelineRunsLaterStagesAfterAnError(t *testing.T) {
	var ran []string
	boom := errors.New("boom")

	p := New(
		ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			ran = append(ran, "one")
			return ctx
		}),
		ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			ran = append(ran, "two")
			ctx.Err = boom
			return ctx
		}),
		ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			ran = append(ran, "three")
			return ctx
		}),
	)

	out := p.Run(&PipelineContext{})

	require.ErrorIs(t, out.Err, boom)
	require.Equal(t, []string{"one", "two", "three"}, ran)
}

func TestPipelineThreadsDataBetweenStages(t *testing.T) {
	p := New(
		ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			ctx.Data = ctx.Data.(int) + 1
			return ctx
		}),
		ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			ctx.Data = ctx.Data.(int) * 10
			return ctx
		}),
	)

	out := p.Run(&PipelineContext{Data: 4})

	require.NoError(t, out.Err)
	require.Equal(t, 50, out.Data)
}
