package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service 封装工具管理的核心用例（不依赖传输层），便于复用和测试。
// 预约相关的状态同步不走这里，由预约生命周期在自己的事务里完成。
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// AddToolInput 新增工具的入参。
type AddToolInput struct {
	Name        string
	Description string
	CategoryID  string
}

func (s *Service) AddTool(ctx context.Context, in AddToolInput) (*Tool, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name required")
	}

	t := &Tool{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Status:      StatusAvailable,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateToolInput 更新工具的入参；Status 留空表示不改状态。
type UpdateToolInput struct {
	Name        string
	Description string
	CategoryID  string
	Status      Status
}

func (s *Service) UpdateTool(ctx context.Context, id string, in UpdateToolInput) (*Tool, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	t, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		t.Name = name
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		t.Description = desc
	}
	if cat := strings.TrimSpace(in.CategoryID); cat != "" {
		t.CategoryID = cat
	}
	if in.Status != "" {
		t.Status = in.Status
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ErrToolBorrowed 在借的工具不能删除，先等归还。
var ErrToolBorrowed = errors.New("tool is borrowed")

func (s *Service) DeleteTool(ctx context.Context, id string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	t, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if t.Status == StatusBorrowed {
		return ErrToolBorrowed
	}
	return s.repo.Delete(ctx, t)
}

func (s *Service) GetTool(ctx context.Context, id string) (*Tool, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	return s.repo.FindByID(ctx, id)
}

// ListToolsFilter 查询条件。
type ListToolsFilter struct {
	CategoryID string
	Status     Status
	Offset     int
	Limit      int
}

func (s *Service) ListTools(ctx context.Context, f ListToolsFilter) ([]Tool, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, strings.TrimSpace(f.CategoryID), f.Status, f.Offset, f.Limit)
}

// ListAvailable 只列出当前可借的工具。
func (s *Service) ListAvailable(ctx context.Context, offset, limit int) ([]Tool, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, "", StatusAvailable, offset, limit)
}

// SendToMaintenance 下架维修；维修中的工具不再接受新预约。
func (s *Service) SendToMaintenance(ctx context.Context, id string) (*Tool, error) {
	return s.setStatus(ctx, id, StatusMaintenance)
}

// Retire 永久退役。
func (s *Service) Retire(ctx context.Context, id string) (*Tool, error) {
	return s.setStatus(ctx, id, StatusRetired)
}

func (s *Service) setStatus(ctx context.Context, id string, status Status) (*Tool, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	t, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	t.Status = status
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
