// Package dashboard folds users, tasks and clients into the summary shown on
// the portal's home page.
package dashboard

import (
	"context"
	"fmt"

	"workforce-portal/internal/models"
)

// RecentTaskCount is how many tasks the admin view lists.
const RecentTaskCount = 5

// OtherProjectType buckets clients without a project type.
const OtherProjectType = "Altele"

type UserSource interface {
	CountByRole(ctx context.Context, role string) (int64, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	Resolve(ctx context.Context, ids []string) ([]models.User, error)
}

type TaskSource interface {
	Count(ctx context.Context, assignee, status string) (int64, error)
	Recent(ctx context.Context, n int64) ([]models.Task, error)
}

type ClientSource interface {
	List(ctx context.Context) ([]models.Client, error)
}

type AdminStats struct {
	TotalEmployees  int64              `json:"total_employees"`
	TotalTasks      int64              `json:"total_tasks"`
	PendingTasks    int64              `json:"pending_tasks"`
	InProgressTasks int64              `json:"in_progress_tasks"`
	CompletedTasks  int64              `json:"completed_tasks"`
	TotalClients    int64              `json:"total_clients"`
	ActiveClients   int64              `json:"active_clients"`
	TotalBudget     float64            `json:"total_budget"`
	MonthlyRevenue  float64            `json:"monthly_revenue"`
	Employees       []models.User      `json:"employees"`
	RecentTasks     []models.TaskView  `json:"recent_tasks"`
	RevenueByType   map[string]float64 `json:"revenue_by_type"`
}

type EmployeeStats struct {
	MyTasks      int64 `json:"my_tasks"`
	MyPending    int64 `json:"my_pending"`
	MyInProgress int64 `json:"my_in_progress"`
	MyCompleted  int64 `json:"my_completed"`
}

// ClientSummary is the money side of the admin view.
type ClientSummary struct {
	Total          int64
	Active         int64
	TotalBudget    float64
	MonthlyRevenue float64
	RevenueByType  map[string]float64
}

// SummarizeClients folds clients in one pass. Budgets count regardless of
// status; monthly fees only for active clients, a missing fee counting as 0.
func SummarizeClients(clients []models.Client) ClientSummary {
	s := ClientSummary{RevenueByType: make(map[string]float64)}
	for _, c := range clients {
		s.Total++
		s.TotalBudget += c.Budget
		if c.Status == models.ClientActive {
			s.Active++
			if c.MonthlyFee != nil {
				s.MonthlyRevenue += *c.MonthlyFee
			}
		}
		key := c.ProjectType
		if key == "" {
			key = OtherProjectType
		}
		s.RevenueByType[key] += c.Budget
	}
	return s
}

type Aggregator struct {
	users   UserSource
	tasks   TaskSource
	clients ClientSource
}

func New(users UserSource, tasks TaskSource, clients ClientSource) *Aggregator {
	return &Aggregator{users: users, tasks: tasks, clients: clients}
}

// Stats returns the admin view when scope is empty and the view of the
// employee scope otherwise.
func (a *Aggregator) Stats(ctx context.Context, scope string) (any, error) {
	if scope == "" {
		return a.Admin(ctx)
	}
	return a.Employee(ctx, scope)
}

func (a *Aggregator) Admin(ctx context.Context) (*AdminStats, error) {
	var (
		stats AdminStats
		err   error
	)
	if stats.TotalEmployees, err = a.users.CountByRole(ctx, models.RoleEmployee); err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	counts, err := a.taskCounts(ctx, "")
	if err != nil {
		return nil, err
	}
	stats.TotalTasks = counts[""]
	stats.PendingTasks = counts[models.TaskPending]
	stats.InProgressTasks = counts[models.TaskInProgress]
	stats.CompletedTasks = counts[models.TaskCompleted]

	clients, err := a.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	summary := SummarizeClients(clients)
	stats.TotalClients = summary.Total
	stats.ActiveClients = summary.Active
	stats.TotalBudget = summary.TotalBudget
	stats.MonthlyRevenue = summary.MonthlyRevenue
	stats.RevenueByType = summary.RevenueByType

	if stats.Employees, err = a.users.ListByRole(ctx, models.RoleEmployee); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	recent, err := a.tasks.Recent(ctx, RecentTaskCount)
	if err != nil {
		return nil, fmt.Errorf("recent tasks: %w", err)
	}
	stats.RecentTasks = make([]models.TaskView, 0, len(recent))
	for _, t := range recent {
		assignees, err := a.users.Resolve(ctx, t.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("resolve assignees of %s: %w", t.ID, err)
		}
		stats.RecentTasks = append(stats.RecentTasks, models.TaskView{Task: t, Assignees: assignees})
	}
	return &stats, nil
}

func (a *Aggregator) Employee(ctx context.Context, userID string) (*EmployeeStats, error) {
	counts, err := a.taskCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &EmployeeStats{
		MyTasks:      counts[""],
		MyPending:    counts[models.TaskPending],
		MyInProgress: counts[models.TaskInProgress],
		MyCompleted:  counts[models.TaskCompleted],
	}, nil
}

// taskCounts keys the total under "" and each status under its name.
func (a *Aggregator) taskCounts(ctx context.Context, assignee string) (map[string]int64, error) {
	counts := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range append([]string{""}, models.TaskStatuses...) {
		n, err := a.tasks.Count(ctx, assignee, status)
		if err != nil {
			return nil, fmt.Errorf("count tasks %q: %w", status, err)
		}
		counts[status] = n
	}
	return counts, nil
}
