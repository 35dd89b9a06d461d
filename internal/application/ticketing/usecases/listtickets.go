package usecases

import (
	"context"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
	sharedquery "github.com/nrjbutsecond/tessera/internal/shared/query"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListTicketsQuery struct {
	UserID    *uint
	ClassID   *uint
	Status    string
	EventKind string
	EventID   *uint
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type ListTicketsResult struct {
	Tickets  []*TicketDetail
	Total    int64
	Page     int
	PageSize int
}

type ListTicketsUseCase struct {
	ticketRepo ticketing.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticketing.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	filter, err := uc.buildFilter(query)
	if err != nil {
		uc.logger.Errorw("invalid list tickets query", "error", err)
		return nil, err
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, err
	}

	details := make([]*TicketDetail, 0, len(tickets))
	for _, t := range tickets {
		details = append(details, toTicketDetail(t))
	}

	return &ListTicketsResult{
		Tickets:  details,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (uc *ListTicketsUseCase) buildFilter(query ListTicketsQuery) (ticketing.TicketFilter, error) {
	filter := ticketing.TicketFilter{
		UserID:  query.UserID,
		ClassID: query.ClassID,
		EventID: query.EventID,
		PageFilter: sharedquery.PageFilter{
			Page:     query.Page,
			PageSize: query.PageSize,
		},
		SortFilter: sharedquery.SortFilter{
			SortBy:    query.SortBy,
			SortOrder: query.SortOrder,
		},
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return ticketing.TicketFilter{}, errors.NewValidationError("invalid status filter")
		}
		filter.Status = &status
	}

	if query.EventKind != "" {
		kind, err := vo.NewEventKind(query.EventKind)
		if err != nil {
			return ticketing.TicketFilter{}, errors.NewValidationError("invalid event kind filter")
		}
		filter.EventKind = &kind
	}

	return filter, nil
}
