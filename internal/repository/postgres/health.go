package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
)

type poolPinger struct {
	pool *pgxpool.Pool
}

// NewPinger checks the database with SELECT 1.
func NewPinger(pool *pgxpool.Pool) repositories.Pinger {
	return &poolPinger{pool: pool}
}

func (p *poolPinger) Ping(ctx context.Context) error {
	var one int
	return p.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}
