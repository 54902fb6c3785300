package publish

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/importer"
	"github.com/dgallion1/techblog/internal/metrics"
	"github.com/dgallion1/techblog/internal/richtext"
	"github.com/dgallion1/techblog/internal/slug"
)

// process imports one file and creates it as a draft post.
func (p *Publisher) process(ctx context.Context, job *Job) {
	log := p.log.With("job_id", job.ID, "filename", job.Filename)
	defer p.record(job)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	imp, err := importer.ForFile(job.Filename, p.opts.Importer)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	draft, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		draft.Title = job.Title
		draft.Slug = slug.Make(job.Title)
	}

	content, err := richtext.Encode(draft.Document)
	if err != nil {
		log.Error("encode failed", "error", err)
		job.AddError(fmt.Sprintf("encode: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.setDraft(draft.Title, draft.Slug, ContentHashHex(content))

	// Phase 1.5: Dedup check
	existing, err := p.findExisting(ctx, draft.Slug)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existing != nil {
		log.Info("post with slug exists, skipping", "slug", draft.Slug, "existing_post_id", existing.ID)
		job.setPostID(existing.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Create the draft, retrying transient failures.
	job.SetStatus(StatusPublishing, "publishing")
	post := cms.NewPost{
		Title:   draft.Title,
		Slug:    draft.Slug,
		Excerpt: draft.Excerpt,
		Content: content,
		Status:  cms.StatusDraft,
	}

	var created *cms.Post
	var lastErr error
attempts:
	for attempt := range p.opts.MaxRetries {
		job.incrAttempts()
		created, lastErr = p.store.CreatePost(ctx, post)
		if lastErr == nil || !IsRetryable(lastErr) || attempt+1 == p.opts.MaxRetries {
			break
		}
		log.Warn("retryable create error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(p.opts.Backoff(attempt)):
		case <-ctx.Done():
			lastErr = ctx.Err()
			break attempts
		}
	}
	if lastErr != nil {
		log.Error("create post failed", "error", lastErr, "attempts", job.Snapshot().Attempts)
		job.AddError(fmt.Sprintf("create: %s", lastErr))
		job.SetStatus(StatusFailed, "publishing")
		return
	}

	job.setPostID(created.ID)
	job.SetStatus(StatusCompleted, "done")
	log.Info("draft created", "post_id", created.ID, "slug", draft.Slug)
}

// findExisting returns the post already stored under slug, in any status.
func (p *Publisher) findExisting(ctx context.Context, s string) (*cms.Post, error) {
	if s == "" {
		return nil, nil
	}
	page, err := p.store.FindPosts(ctx, cms.Query{Where: cms.Equals("slug", s), Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(page.Docs) == 0 {
		return nil, nil
	}
	return &page.Docs[0], nil
}

func (p *Publisher) record(job *Job) {
	metrics.ImportedPosts.WithLabelValues(string(job.Snapshot().Status)).Inc()
}
