// ABOUTME: Reminder provider: one-shot reminders in SQLite and recurring cron alarms.
// ABOUTME: Reminders survive restarts; alarms live for the process lifetime.

package remind

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hearthd/hearth/internal/sched"
	"github.com/hearthd/hearth/internal/store"
	"github.com/hearthd/hearth/internal/tools"
)

var category = tools.Category{
	Name:        "reminders",
	Description: "One-shot reminders and recurring alarms",
}

// Provider exposes reminder and alarm tools over the store and scheduler.
type Provider struct {
	reminders store.ReminderStore
	scheduler *sched.Service
	agentID   string
}

// New creates the reminder provider.
func New(reminders store.ReminderStore, scheduler *sched.Service, agentID string) *Provider {
	return &Provider{reminders: reminders, scheduler: scheduler, agentID: agentID}
}

// Descriptors lists the reminder and alarm tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "reminders.create",
			Description: "Schedule a one-shot reminder for a point in time (RFC 3339)",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"message": {Type: "string", Description: "Reminder text"},
				"at":      {Type: "string", Description: "When to fire, RFC 3339"},
			}, "message", "at"),
			Category: category,
		},
		{
			Name:        "reminders.list",
			Description: "List pending reminders, optionally including already-fired ones",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"include_fired": {Type: "boolean", Description: "Include fired reminders"},
			}),
			Category: category,
		},
		{
			Name:        "reminders.delete",
			Description: "Delete a reminder by ID",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"id": {Type: "string", Description: "Reminder ID"},
			}, "id"),
			Category: category,
		},
		{
			Name:        "alarms.set",
			Description: "Set a recurring alarm from a cron expression",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"expr":    {Type: "string", Description: "Cron expression, e.g. '0 9 * * *'"},
				"message": {Type: "string", Description: "Alarm text"},
			}, "expr", "message"),
			Category: category,
		},
		{
			Name:        "alarms.list",
			Description: "List recurring alarms",
			InputSchema: tools.ObjectSchema(nil),
			Category:    category,
		},
		{
			Name:        "alarms.clear",
			Description: "Remove a recurring alarm by ID",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"id": {Type: "string", Description: "Alarm ID"},
			}, "id"),
			Category: category,
		},
	}
}

// Invoke executes a reminder or alarm tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	switch name {
	case "reminders.create":
		return p.create(ctx, args)
	case "reminders.list":
		return p.list(ctx, args)
	case "reminders.delete":
		return p.delete(ctx, args)
	case "alarms.set":
		return p.setAlarm(args)
	case "alarms.list":
		return p.listAlarms()
	case "alarms.clear":
		return p.clearAlarm(args)
	default:
		return tools.Result{}, tools.BadArgsf("unknown reminder tool %s", name)
	}
}

type createInput struct {
	Message string `json:"message"`
	At      string `json:"at"`
}

func (p *Provider) create(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in createInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Message == "" || in.At == "" {
		return tools.Result{}, tools.BadArgsf("message and at are required")
	}
	at, err := time.Parse(time.RFC3339, in.At)
	if err != nil {
		return tools.Result{}, tools.BadArgsf("at must be RFC 3339: %v", err)
	}
	r := &store.Reminder{
		ID:      uuid.NewString(),
		AgentID: p.agentID,
		Message: in.Message,
		At:      at.UTC(),
	}
	if err := p.reminders.CreateReminder(ctx, r); err != nil {
		return tools.Result{}, tools.APIErrf("saving reminder: %v", err)
	}
	return tools.JSON(map[string]any{"id": r.ID, "at": r.At.Format(time.RFC3339)})
}

type listInput struct {
	IncludeFired bool `json:"include_fired"`
}

func (p *Provider) list(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in listInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	reminders, err := p.reminders.ListReminders(ctx, p.agentID, in.IncludeFired)
	if err != nil {
		return tools.Result{}, tools.APIErrf("listing reminders: %v", err)
	}
	if reminders == nil {
		reminders = []*store.Reminder{}
	}
	return tools.JSON(map[string]any{"reminders": reminders, "count": len(reminders)})
}

type idInput struct {
	ID string `json:"id"`
}

func (p *Provider) delete(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in idInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.ID == "" {
		return tools.Result{}, tools.BadArgsf("id is required")
	}
	if err := p.reminders.DeleteReminder(ctx, in.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return tools.Result{}, tools.BadArgsf("no such reminder: %s", in.ID)
		}
		return tools.Result{}, tools.APIErrf("deleting reminder: %v", err)
	}
	return tools.Textf("deleted reminder %s", in.ID), nil
}

type setAlarmInput struct {
	Expr    string `json:"expr"`
	Message string `json:"message"`
}

func (p *Provider) setAlarm(args json.RawMessage) (tools.Result, error) {
	if p.scheduler == nil {
		return tools.Result{}, tools.Unavailable("scheduler")
	}
	var in setAlarmInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Expr == "" || in.Message == "" {
		return tools.Result{}, tools.BadArgsf("expr and message are required")
	}
	alarm, err := p.scheduler.AddAlarm(uuid.NewString(), in.Expr, in.Message)
	if err != nil {
		return tools.Result{}, tools.BadArgsf("invalid alarm: %v", err)
	}
	return tools.JSON(map[string]any{"id": alarm.ID, "expr": alarm.Expr})
}

func (p *Provider) listAlarms() (tools.Result, error) {
	if p.scheduler == nil {
		return tools.Result{}, tools.Unavailable("scheduler")
	}
	alarms := p.scheduler.Alarms()
	if alarms == nil {
		alarms = []*sched.Alarm{}
	}
	return tools.JSON(map[string]any{"alarms": alarms, "count": len(alarms)})
}

func (p *Provider) clearAlarm(args json.RawMessage) (tools.Result, error) {
	if p.scheduler == nil {
		return tools.Result{}, tools.Unavailable("scheduler")
	}
	var in idInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.ID == "" {
		return tools.Result{}, tools.BadArgsf("id is required")
	}
	if err := p.scheduler.RemoveAlarm(in.ID); err != nil {
		return tools.Result{}, tools.BadArgsf("no such alarm: %s", in.ID)
	}
	return tools.Textf("cleared alarm %s", in.ID), nil
}

var _ tools.Provider = (*Provider)(nil)
