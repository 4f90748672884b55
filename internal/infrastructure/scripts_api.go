package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cwautomate-mcp-server/internal/domain"
)

type scriptsAPI struct {
	c *AutomateClient
}

func (a *scriptsAPI) List(ctx context.Context, params domain.ScriptListParams) (*domain.ScriptList, error) {
	var cond condition
	cond.equalsInt("FolderId", params.FolderID)
	cond.contains("Name", params.Search)

	scripts, err := listPage[domain.Script](ctx, a.c, "/Scripts", cond.query(), params.PageSize, params.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	return &domain.ScriptList{Total: len(scripts), Scripts: nonNil(scripts)}, nil
}

// Get returns a script; its body is only requested when opts.IncludeContent is set.
func (a *scriptsAPI) Get(ctx context.Context, scriptID int, opts domain.ScriptGetOptions) (*domain.Script, error) {
	var query url.Values
	if opts.IncludeContent {
		query = url.Values{"includeContent": {"true"}}
	}

	var script domain.Script
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/Scripts/%d", scriptID), query, nil, &script); err != nil {
		return nil, fmt.Errorf("failed to get script %d: %w", scriptID, err)
	}
	return &script, nil
}

func (a *scriptsAPI) Execute(ctx context.Context, scriptID int, opts domain.ScriptExecuteOptions) (*domain.JobResult, error) {
	body := map[string]interface{}{}
	if len(opts.ComputerIDs) > 0 {
		body["ComputerIds"] = opts.ComputerIDs
	}
	if len(opts.Parameters) > 0 {
		body["Parameters"] = opts.Parameters
	}
	if opts.Priority != "" {
		body["Priority"] = opts.Priority
	}

	var job domain.JobResult
	if err := a.c.do(ctx, http.MethodPost, fmt.Sprintf("/Scripts/%d/Execute", scriptID), nil, body, &job); err != nil {
		return nil, fmt.Errorf("failed to execute script %d: %w", scriptID, err)
	}
	return &job, nil
}
