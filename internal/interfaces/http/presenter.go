package http

import (
	"github.com/jhoicas/gestion-almacen/internal/application/dto"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
)

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:            c.ID,
		InstitutionID: c.InstitutionID,
		ParentID:      c.ParentID,
		Name:          c.Name,
		Description:   c.Description,
		Icon:          c.Icon,
		Color:         c.Color,
		Level:         c.Level,
		FullPath:      c.FullPath,
		Order:         c.Order,
		Active:        c.Active,
		CreatedBy:     c.CreatedBy,
		UpdatedBy:     c.UpdatedBy,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toCategoryList(list []*entity.Category) dto.CategoryListResponse {
	out := dto.CategoryListResponse{Items: make([]dto.CategoryResponse, 0, len(list)), Total: len(list)}
	for _, c := range list {
		out.Items = append(out.Items, toCategoryResponse(c))
	}
	return out
}

func toTree(nodes []*entity.CategoryTreeNode) []dto.CategoryTreeResponse {
	out := make([]dto.CategoryTreeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.CategoryTreeResponse{
			CategoryResponse: toCategoryResponse(n.Category),
			Children:         toTree(n.Children),
		})
	}
	return out
}

func toSegments(segments []entity.PathSegment) []dto.PathSegmentResponse {
	out := make([]dto.PathSegmentResponse, 0, len(segments))
	for _, s := range segments {
		out = append(out, dto.PathSegmentResponse{ID: s.ID, Name: s.Name, Level: s.Level})
	}
	return out
}

func toMaterials(list []*entity.Material) []dto.MaterialResponse {
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MaterialResponse{
			ID:          m.ID,
			CategoryID:  m.CategoryID,
			Code:        m.Code,
			Name:        m.Name,
			UnitMeasure: m.UnitMeasure,
			Stock:       m.Stock,
			Active:      m.Active,
		})
	}
	return out
}

func toAudit(list []*entity.AuditEntry) []dto.AuditEntryResponse {
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.AuditEntryResponse{
			ID:         e.ID,
			CategoryID: e.CategoryID,
			Operation:  e.Operation,
			UserID:     e.UserID,
			FullPath:   e.FullPath,
			Level:      e.Level,
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

func toReport(r *hierarchy.Report) dto.HierarchyReportResponse {
	out := dto.HierarchyReportResponse{
		Valid:    len(r.Problems) == 0,
		Total:    r.Total,
		Active:   r.Active,
		Inactive: r.Inactive,
		Levels:   r.Levels,
		Roots:    r.Roots,
		Problems: make([]dto.HierarchyProblemResponse, 0, len(r.Problems)),
	}
	for _, p := range r.Problems {
		out.Problems = append(out.Problems, dto.HierarchyProblemResponse{Kind: p.Kind, CategoryIDs: p.CategoryIDs, Message: p.Message})
	}
	return out
}
