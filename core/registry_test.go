package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDriver struct{ Driver }

func TestRegistryNewUnknownModel(t *testing.T) {
	r := NewRegistry()
	_, err := r.New(SwitchDescriptor{Model: "nope"})
	require.Error(t, err)
}

func TestRegistryRegisterAndNew(t *testing.T) {
	r := NewRegistry()
	want := &stubDriver{}
	r.Register("widget", func(desc SwitchDescriptor) Driver { return want })

	got, err := r.New(SwitchDescriptor{Model: "widget", Hostname: "h"})
	require.NoError(t, err)
	assert.Same(t, Driver(want), got)
}

func TestRegistryRegisterTwiceReplaces(t *testing.T) {
	r := NewRegistry()
	first := &stubDriver{}
	second := &stubDriver{}
	r.Register("widget", func(desc SwitchDescriptor) Driver { return first })
	r.Register("widget", func(desc SwitchDescriptor) Driver { return second })

	got, err := r.New(SwitchDescriptor{Model: "widget"})
	require.NoError(t, err)
	assert.Same(t, Driver(second), got)
}

func TestRegistryModels(t *testing.T) {
	r := NewRegistry()
	r.Register("a", func(desc SwitchDescriptor) Driver { return &stubDriver{} })
	r.Register("b", func(desc SwitchDescriptor) Driver { return &stubDriver{} })

	models := r.Models()
	assert.ElementsMatch(t, []string{"a", "b"}, models)
}
