package main

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestPipelineJob_SkipsOverlappingRuns(t *testing.T) {
	logger = logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	var calls int64
	started := make(chan struct{})
	release := make(chan struct{})
	job := pipelineJob(func() {
		if atomic.AddInt64(&calls, 1) == 1 {
			close(started)
			<-release
		}
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		job.Run()
	}()
	<-started

	// a tick during the startup run is skipped
	job.Run()
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	close(release)
	wg.Wait()

	job.Run()
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}
