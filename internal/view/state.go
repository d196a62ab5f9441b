package view

import (
	"encoding/json"

	"assetview/pkg/types/assets"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

const unknownError = "unknown error"

// LoadState is the lifecycle of one detail fetch. The zero value is Loading.
type LoadState struct {
	status  Status
	model   *assets.ViewModel
	message string
}

func Loading() LoadState {
	return LoadState{status: StatusLoading}
}

// Loaded wraps a complete view model. A nil model is reported as a failure,
// since a loaded state must always carry data.
func Loaded(vm *assets.ViewModel) LoadState {
	if vm == nil {
		return FailedMessage("empty response")
	}
	return LoadState{status: StatusLoaded, model: vm}
}

func Failed(err error) LoadState {
	if err == nil {
		return FailedMessage(unknownError)
	}
	return FailedMessage(err.Error())
}

func FailedMessage(msg string) LoadState {
	if msg == "" {
		msg = unknownError
	}
	return LoadState{status: StatusFailed, message: msg}
}

func (s LoadState) Status() Status {
	if s.status == "" {
		return StatusLoading
	}
	return s.status
}

func (s LoadState) IsLoading() bool { return s.Status() == StatusLoading }
func (s LoadState) IsLoaded() bool  { return s.Status() == StatusLoaded }
func (s LoadState) IsFailed() bool  { return s.Status() == StatusFailed }

// IsSettled reports whether the fetch has finished, successfully or not.
func (s LoadState) IsSettled() bool {
	return !s.IsLoading()
}

func (s LoadState) ViewModel() (*assets.ViewModel, bool) {
	if s.status != StatusLoaded {
		return nil, false
	}
	return s.model, true
}

// Message is the failure text; empty unless the state is Failed.
func (s LoadState) Message() string {
	return s.message
}

type stateJSON struct {
	Status  Status                `json:"status"`
	Asset   *assets.Summary       `json:"asset,omitempty"`
	History []assets.HistoryPoint `json:"history,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// MarshalJSON renders the state with the history already cut to the display window.
func (s LoadState) MarshalJSON() ([]byte, error) {
	out := stateJSON{Status: s.Status(), Error: s.message}
	if vm, ok := s.ViewModel(); ok {
		out.Asset = &vm.Asset
		out.History = LastN(vm.History, assets.HistoryWindow)
	}
	return json.Marshal(out)
}
