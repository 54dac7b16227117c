package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/validation"
)

type CreateCmd struct {
	ID         string `help:"Project id."`
	GenerateID bool   `name:"generate-id" help:"Generate a project id when --id is not given."`
	Name       string `required:"" help:"Project name."`
	Type       string `required:"" help:"Project type, e.g. construction, mining or agriculture."`
	Area       string `required:"" help:"Affected area in hectares."`
	Duration   string `required:"" help:"Duration in months."`
	Location   string `help:"Free-form location."`
	Intensity  string `help:"Impact intensity. Defaults to INTENSITY_DEFAULT."`
}

func (c *CreateCmd) Run(rc *runContext) error {
	id := c.ID
	if id == "" && c.GenerateID {
		var err error
		if id, err = domain.NewProjectID("prj"); err != nil {
			return err
		}
	}

	p, err := rc.app.Service.Create(rc.ctx, validation.Fields{
		domain.ColumnID:             id,
		domain.ColumnName:           c.Name,
		domain.ColumnType:           c.Type,
		domain.ColumnAreaHa:         c.Area,
		domain.ColumnDurationMonths: c.Duration,
		domain.ColumnLocation:       c.Location,
		domain.ColumnIntensity:      c.Intensity,
	})
	if err != nil {
		return describe(err, id)
	}
	return rc.print(p, func() string { return "Created " + projectLine(*p) })
}

type ListCmd struct{}

func (c *ListCmd) Run(rc *runContext) error {
	items := rc.app.Service.List(rc.ctx)
	return rc.print(items, func() string {
		if len(items) == 0 {
			return "No projects."
		}
		return strings.Join(lo.Map(items, func(p domain.Project, _ int) string { return projectLine(p) }), "\n")
	})
}

type GetCmd struct {
	ID string `arg:"" help:"Project id."`
}

func (c *GetCmd) Run(rc *runContext) error {
	p, ok := rc.app.Service.Get(rc.ctx, c.ID)
	if !ok {
		return fmt.Errorf("project %s not found", c.ID)
	}
	return rc.print(p, func() string { return projectLine(*p) })
}

type UpdateCmd struct {
	ID  string            `arg:"" help:"Project id."`
	Set map[string]string `short:"s" help:"Field to change as column=value, e.g. --set intensity=7. Repeatable."`
}

func (c *UpdateCmd) Run(rc *runContext) error {
	if len(c.Set) == 0 {
		return errors.New("nothing to update, pass at least one --set column=value")
	}
	changes := make(validation.Fields, len(c.Set))
	for k, v := range c.Set {
		changes[strings.ToLower(strings.TrimSpace(k))] = v
	}

	ok, err := rc.app.Service.Update(rc.ctx, c.ID, changes)
	if err != nil {
		return describe(err, c.ID)
	}
	if !ok {
		return fmt.Errorf("project %s not found", c.ID)
	}
	p, found := rc.app.Service.Get(rc.ctx, c.ID)
	if !found {
		// the stored row was updated but still does not decode
		return rc.print(map[string]string{"updated": c.ID}, func() string { return "Updated " + c.ID })
	}
	return rc.print(p, func() string { return "Updated " + projectLine(*p) })
}

type DeleteCmd struct {
	ID string `arg:"" help:"Project id."`
}

func (c *DeleteCmd) Run(rc *runContext) error {
	ok, err := rc.app.Service.Delete(rc.ctx, c.ID)
	if err != nil {
		return describe(err, c.ID)
	}
	if !ok {
		return fmt.Errorf("project %s not found", c.ID)
	}
	return rc.print(map[string]string{"deleted": c.ID}, func() string { return "Deleted " + c.ID })
}

type SimulateCmd struct {
	ID string `arg:"" help:"Project id."`
}

func (c *SimulateCmd) Run(rc *runContext) error {
	res, ok := rc.app.Service.Simulate(rc.ctx, c.ID)
	if !ok {
		return fmt.Errorf("project %s not found", c.ID)
	}
	return rc.print(res, func() string { return impactText(res) })
}

func describe(err error, id string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return errors.New(ve.Message)
	case errors.Is(err, domain.ErrDuplicateKey):
		return fmt.Errorf("a project with id %s already exists", id)
	default:
		return err
	}
}
