package api

import (
	"context"
	"fmt"

	"naijalotto_client/internal/domain"
	"naijalotto_client/pkg/httpClient"
)

// BuyTicketRequest 購票請求體
type BuyTicketRequest struct {
	DrawID          string  `json:"draw_id"`
	TicketPrice     float64 `json:"ticket_price"`
	SelectedNumbers []int   `json:"selected_numbers"`
}

// TicketsAPI 彩票相關端點
type TicketsAPI interface {
	BuyTicket(ctx context.Context, req BuyTicketRequest) (*domain.Ticket, error)
	MyTickets(ctx context.Context) ([]domain.Ticket, error)
	TicketsByDraw(ctx context.Context, drawID string) ([]domain.Ticket, error)
}

type ticketsAPI struct {
	client httpClient.HTTPClient
}

// NewTicketsAPI 創建彩票端點客戶端
func NewTicketsAPI(client httpClient.HTTPClient) TicketsAPI {
	return &ticketsAPI{client: client}
}

func (a *ticketsAPI) BuyTicket(ctx context.Context, req BuyTicketRequest) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := a.client.Post(ctx, "/tickets/buy", req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (a *ticketsAPI) MyTickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := a.client.Get(ctx, "/tickets/my-tickets", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (a *ticketsAPI) TicketsByDraw(ctx context.Context, drawID string) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := a.client.Get(ctx, fmt.Sprintf("/tickets/draw/%s", drawID), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}
