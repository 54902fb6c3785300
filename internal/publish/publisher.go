// Package publish imports authoring files and stores them as draft posts.
package publish

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/importer"
)

const DefaultWorkers = 4

// Store is the subset of the CMS client the publisher writes through.
type Store interface {
	FindPosts(ctx context.Context, q cms.Query) (*cms.PostPage, error)
	CreatePost(ctx context.Context, p cms.NewPost) (*cms.Post, error)
}

type Options struct {
	Workers    int
	MaxRetries int
	Importer   importer.Options

	// Backoff overrides the delay between create attempts.
	Backoff func(attempt int) time.Duration
}

// Publisher runs import jobs on a bounded pool of workers.
type Publisher struct {
	store Store
	log   *slog.Logger
	opts  Options
}

func New(store Store, log *slog.Logger, opts Options) *Publisher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Backoff == nil {
		opts.Backoff = Backoff
	}
	return &Publisher{store: store, log: log, opts: opts}
}

// Run processes every job and returns their reports in input order. Jobs
// not started before ctx is cancelled are reported as failed.
func (p *Publisher) Run(ctx context.Context, jobs []*Job) []Report {
	queue := make(chan *Job)
	var wg sync.WaitGroup

	workers := min(p.opts.Workers, len(jobs))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				p.process(ctx, job)
			}
		}()
	}

feed:
	for _, job := range jobs {
		select {
		case queue <- job:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	reports := make([]Report, len(jobs))
	for i, job := range jobs {
		if job.Snapshot().Status == StatusQueued {
			job.AddError(context.Cause(ctx).Error())
			job.SetStatus(StatusFailed, "queued")
			p.record(job)
		}
		reports[i] = job.Snapshot()
	}
	return reports
}
