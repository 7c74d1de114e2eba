package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

var taskColumns = []string{
	"id", "title", "description", "status", "priority", "assigned_to",
	"contact_id", "property_id", "created_date", "due_date", "completed_date",
}

// TaskFilter narrows ListTasks
type TaskFilter struct {
	Status    string
	ContactID int64
	OpenOnly  bool
}

// TaskDetail is a task joined with its contact and property labels
type TaskDetail struct {
	models.Task
	ContactName string `json:"contact_name,omitempty"`
	Property    string `json:"property,omitempty"`
}

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var desc, status, priority, assigned, created, due, completed sql.NullString
	var contactID, propertyID sql.NullInt64
	if err := row.Scan(&t.ID, &t.Title, &desc, &status, &priority, &assigned,
		&contactID, &propertyID, &created, &due, &completed); err != nil {
		return nil, err
	}
	t.Description = desc.String
	t.Status = status.String
	t.Priority = priority.String
	t.AssignedTo = assigned.String
	t.ContactID = idPtr(contactID)
	t.PropertyID = idPtr(propertyID)
	t.CreatedDate = created.String
	t.DueDate = due.String
	t.CompletedDate = completed.String
	return &t, nil
}

// ListTasks returns tasks ordered by due date
func (s *Store) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	sel := s.b.Select(taskColumns...).From(s.b.Table(database.TableTasks)).OrderBy("due_date", "id")
	if f.Status != "" {
		sel.Where(entsql.EQ("status", f.Status))
	}
	if f.OpenOnly {
		sel.Where(entsql.Or(entsql.IsNull("status"), entsql.NEQ("status", models.TaskCompleted)))
	}
	if f.ContactID > 0 {
		sel.Where(entsql.EQ("contact_id", f.ContactID))
	}

	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// GetTask returns one task
func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	query, args := s.b.Select(taskColumns...).
		From(s.b.Table(database.TableTasks)).
		Where(entsql.EQ("id", id)).
		Query()
	t, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "task")
	}
	return t, nil
}

// CreateTask inserts t, defaulting status to Pending and priority to Medium
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	return s.createTask(ctx, s.db, t)
}

func (s *Store) createTask(ctx context.Context, cn conn, t *models.Task) error {
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	if t.Priority == "" {
		t.Priority = "Medium"
	}
	t.CreatedDate = s.timestamp()
	t.DueDate = models.NormalizeTimestamp(t.DueDate)

	id, err := s.insert(ctx, cn, s.b.Insert(database.TableTasks).
		Columns("title", "description", "status", "priority", "assigned_to",
			"contact_id", "property_id", "created_date", "due_date").
		Values(t.Title, nullable(t.Description), t.Status, t.Priority, nullable(t.AssignedTo),
			nullableID(t.ContactID), nullableID(t.PropertyID), t.CreatedDate, nullable(t.DueDate)))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = id
	return nil
}

// CompleteTask marks a task Completed
func (s *Store) CompleteTask(ctx context.Context, id int64) error {
	return s.update(ctx, s.b.Update(database.TableTasks).
		Set("status", models.TaskCompleted).
		Set("completed_date", s.timestamp()).
		Where(entsql.EQ("id", id)), "task")
}

// OpenTaskCounts returns the number of not-completed tasks per contact
func (s *Store) OpenTaskCounts(ctx context.Context) (map[int64]int, error) {
	sel := s.b.Select("contact_id", entsql.Count("*")).
		From(s.b.Table(database.TableTasks)).
		Where(entsql.And(
			entsql.NotNull("contact_id"),
			entsql.Or(entsql.IsNull("status"), entsql.NEQ("status", models.TaskCompleted)),
		)).
		GroupBy("contact_id")
	return s.countsByID(ctx, sel)
}

func (s *Store) taskDetails(ctx context.Context, where *entsql.Predicate, orderBy string) ([]TaskDetail, error) {
	t := s.b.Table(database.TableTasks).As("t")
	c := s.b.Table(database.TableContacts).As("c")
	p := s.b.Table(database.TableProperties).As("p")

	cols := t.Columns(taskColumns...)
	cols = append(cols, c.C("name"), p.C("building"), p.C("unit"))
	sel := s.b.Select(cols...).
		From(t).
		LeftJoin(c).On(t.C("contact_id"), c.C("id")).
		LeftJoin(p).On(t.C("property_id"), p.C("id")).
		Where(where).
		OrderBy(t.C(orderBy))

	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskDetail
	for rows.Next() {
		var task models.Task
		var desc, status, priority, assigned, created, due, completed sql.NullString
		var contactID, propertyID sql.NullInt64
		var name, building, unit sql.NullString
		if err := rows.Scan(&task.ID, &task.Title, &desc, &status, &priority, &assigned,
			&contactID, &propertyID, &created, &due, &completed, &name, &building, &unit); err != nil {
			return nil, err
		}
		task.Description = desc.String
		task.Status = status.String
		task.Priority = priority.String
		task.AssignedTo = assigned.String
		task.ContactID = idPtr(contactID)
		task.PropertyID = idPtr(propertyID)
		task.CreatedDate = created.String
		task.DueDate = due.String
		task.CompletedDate = completed.String

		d := TaskDetail{Task: task, ContactName: name.String}
		if building.String != "" && unit.String != "" {
			d.Property = building.String + " Unit " + unit.String
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// OverdueTasks returns open tasks whose due date is before now, oldest first
func (s *Store) OverdueTasks(ctx context.Context) ([]TaskDetail, error) {
	t := s.b.Table(database.TableTasks).As("t")
	return s.taskDetails(ctx, entsql.And(
		entsql.NEQ(t.C("status"), models.TaskCompleted),
		entsql.LT(t.C("due_date"), s.timestamp()),
	), "due_date")
}

// ViewingsOn returns viewing tasks due on the given YYYY-MM-DD day
func (s *Store) ViewingsOn(ctx context.Context, day string) ([]TaskDetail, error) {
	t := s.b.Table(database.TableTasks).As("t")
	return s.taskDetails(ctx, entsql.And(
		entsql.ExprP(fmt.Sprintf("DATE(%s) = ?", t.C("due_date")), day),
		entsql.ContainsFold(t.C("title"), "viewing"),
		entsql.NotNull(t.C("contact_id")),
	), "due_date")
}
