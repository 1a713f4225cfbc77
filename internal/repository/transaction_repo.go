package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/models"
)

// Rial conversion used for display only; amounts are stored in USD.
const usdToIRR = 60000

const defaultNetwork = "TRC20"

const transactionColumns = `
	t.id::text, t.user_id::text, COALESCE(p.full_name, 'Unknown'), t.tx_id, t.amount,
	t.network, t.months, t.status, t.created_at
`

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.UserName,
		&t.TxID,
		&t.AmountUSD,
		&t.Network,
		&t.Months,
		&t.Status,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	t.AmountIRR = t.AmountUSD * usdToIRR
	return &t, nil
}

// Create fails with a unique violation when the chain transaction id was already submitted.
func (r *TransactionRepository) Create(ctx context.Context, t models.Transaction) (*models.Transaction, error) {
	if t.Network == "" {
		t.Network = defaultNetwork
	}

	var id string
	if err := r.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, tx_id, amount, network, months, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text
	`, t.UserID, t.TxID, t.AmountUSD, t.Network, t.Months, string(t.Status)).Scan(&id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	return scanTransaction(r.db.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN profiles p ON p.id = t.user_id
		WHERE t.id = $1
	`, id))
}

func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Transaction, error) {
	return scanTransaction(r.db.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN profiles p ON p.id = t.user_id
		WHERE t.id = $1
		FOR UPDATE OF t
	`, id))
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List returns all transactions, newest first.
func (r *TransactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN profiles p ON p.id = t.user_id
		ORDER BY t.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}
