package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"fuhao/internal/buildpipeline"
	"fuhao/internal/ui"
)

type buildOutcome struct {
	result *buildpipeline.BuildResult
	err    error
}

// runBuildWithUI runs the build in the background and drives the progress
// view from its events until both are finished.
func runBuildWithUI(ctx context.Context, title string, req *buildpipeline.BuildRequest) (*buildpipeline.BuildResult, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Build(ctx, &reqCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, buildpipeline.DisplayNames(req.BaseDir, req.Files), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// вид мог закрыться раньше сборки
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
