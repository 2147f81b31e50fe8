// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxGardenSide is the largest number of rows or columns a garden may have.
const MaxGardenSide = 50

// Garden は植物スナップショットを配置する二次元の区画です。
// 空のセルはnilです。
type Garden struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Cells [][]*Plant `json:"cells"`
}

// NewGarden は新しいGardenインスタンスを作成します。
func NewGarden(name string, rows, cols int) (*Garden, error) {
	g := &Garden{
		ID:   uuid.New().String(),
		Name: strings.TrimSpace(name),
		Rows: rows,
		Cols: cols,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.Cells = EmptyCells(rows, cols)
	return g, nil
}

// Validate はGardenのデータバリデーションを行います。
func (g *Garden) Validate() error {
	if g.Name == "" {
		return NewValidationError("garden name is required")
	}
	if g.Rows < 1 || g.Rows > MaxGardenSide || g.Cols < 1 || g.Cols > MaxGardenSide {
		return NewValidationError(fmt.Sprintf("garden size must be between 1x1 and %dx%d", MaxGardenSide, MaxGardenSide))
	}
	return nil
}

// Place は指定したセルに植物を配置します。既存の植物は置き換えられます。
func (g *Garden) Place(row, col int, p *Plant) error {
	if err := g.checkCell(row, col); err != nil {
		return err
	}
	g.Cells[row][col] = p
	return nil
}

// Clear は指定したセルを空にします。
func (g *Garden) Clear(row, col int) error {
	if err := g.checkCell(row, col); err != nil {
		return err
	}
	g.Cells[row][col] = nil
	return nil
}

// PlantCount returns the number of occupied cells.
func (g *Garden) PlantCount() int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c != nil {
				n++
			}
		}
	}
	return n
}

func (g *Garden) checkCell(row, col int) error {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return NewValidationError(fmt.Sprintf("cell (%d, %d) is outside the %dx%d garden", row, col, g.Rows, g.Cols))
	}
	return nil
}

// EmptyCells allocates a rows x cols grid of empty cells.
func EmptyCells(rows, cols int) [][]*Plant {
	cells := make([][]*Plant, rows)
	for i := range cells {
		cells[i] = make([]*Plant, cols)
	}
	return cells
}
