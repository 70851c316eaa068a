package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trade-journal/journal"
	"trade-journal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// tradeColumns is the full column list in scan order. Keep in sync with
// scanTrade.
const tradeColumns = `id, user_id, symbol, direction, asset_class, status,
	entry_date, entry_price, quantity, stop_loss, take_profit,
	exit_date, exit_price, actual_exit_price,
	pnl, pnl_percent, commissions, net_pnl, r_multiple, mae, mfe, hold_time_minutes,
	risk_amount, risk_percent, position_size_pct, conviction, setup_name, timeframe,
	thesis, mistakes, lessons, emotional_state, market_condition,
	execution_grade, patience_grade, discipline_grade, overall_grade,
	is_paper_trade, is_revenge_trade, broke_rules, followed_plan,
	created_at, updated_at`

func scanTrade(row pgx.Row) (*models.Trade, error) {
	var t models.Trade
	err := row.Scan(
		&t.ID, &t.UserID, &t.Symbol, &t.Direction, &t.AssetClass, &t.Status,
		&t.EntryDate, &t.EntryPrice, &t.Quantity, &t.StopLoss, &t.TakeProfit,
		&t.ExitDate, &t.ExitPrice, &t.ActualExitPrice,
		&t.PnL, &t.PnLPercent, &t.Commissions, &t.NetPnL, &t.RMultiple, &t.MAE, &t.MFE, &t.HoldTimeMinutes,
		&t.RiskAmount, &t.RiskPercent, &t.PositionSizePct, &t.Conviction, &t.SetupName, &t.Timeframe,
		&t.Thesis, &t.Mistakes, &t.Lessons, &t.EmotionalState, &t.MarketCondition,
		&t.ExecutionGrade, &t.PatienceGrade, &t.DisciplineGrade, &t.OverallGrade,
		&t.IsPaperTrade, &t.IsRevengeTrade, &t.BrokeRules, &t.FollowedPlan,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTrades(rows pgx.Rows) ([]models.Trade, error) {
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	return trades, rows.Err()
}

// sortColumns is the fixed allow-list of sortable trade fields. Caller input
// is dispatched through this table and never interpolated into SQL.
var sortColumns = map[string]string{
	"entry_date":        "entry_date",
	"exit_date":         "exit_date",
	"symbol":            "symbol",
	"direction":         "direction",
	"asset_class":       "asset_class",
	"status":            "status",
	"entry_price":       "entry_price",
	"exit_price":        "exit_price",
	"quantity":          "quantity",
	"pnl":               "pnl",
	"net_pnl":           "net_pnl",
	"pnl_percent":       "pnl_percent",
	"r_multiple":        "r_multiple",
	"hold_time_minutes": "hold_time_minutes",
	"created_at":        "created_at",
	"updated_at":        "updated_at",
}

// SortColumn resolves a caller-supplied sort field against the allow-list.
func SortColumn(input string) (string, error) {
	if input == "" {
		return "entry_date", nil
	}
	col, ok := sortColumns[input]
	if !ok {
		return "", models.NewValidationError(fmt.Sprintf("invalid sort column %q", input))
	}
	return col, nil
}

// SortOrder resolves a caller-supplied sort direction. Only asc and desc are
// accepted.
func SortOrder(input string) (string, error) {
	switch strings.ToLower(input) {
	case "", "desc":
		return "DESC", nil
	case "asc":
		return "ASC", nil
	}
	return "", models.NewValidationError(fmt.Sprintf("invalid sort order %q", input))
}

// CreateTrade inserts a new open trade.
func (r *Repository) CreateTrade(ctx context.Context, trade *models.Trade) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO trades (
			id, user_id, symbol, direction, asset_class, status,
			entry_date, entry_price, quantity, stop_loss, take_profit,
			commissions, risk_amount, risk_percent, position_size_pct,
			conviction, setup_name, timeframe, thesis, emotional_state, market_condition,
			is_paper_trade, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`,
		trade.ID, trade.UserID, trade.Symbol, trade.Direction, trade.AssetClass, trade.Status,
		trade.EntryDate, trade.EntryPrice, trade.Quantity, trade.StopLoss, trade.TakeProfit,
		trade.Commissions, trade.RiskAmount, trade.RiskPercent, trade.PositionSizePct,
		trade.Conviction, trade.SetupName, trade.Timeframe, trade.Thesis, trade.EmotionalState, trade.MarketCondition,
		trade.IsPaperTrade, trade.CreatedAt, trade.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// GetTrade returns a single trade scoped to the owning user. A trade that
// exists but belongs to someone else behaves exactly like a missing one.
func (r *Repository) GetTrade(ctx context.Context, userID, id uuid.UUID) (*models.Trade, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE id = $1 AND user_id = $2`,
		id, userID)

	t, err := scanTrade(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trade: %w", err)
	}
	return t, nil
}

// GetOpenTrade returns a trade only if it is currently open and owned by the
// user; anything else is reported as not found.
func (r *Repository) GetOpenTrade(ctx context.Context, userID, id uuid.UUID) (*models.Trade, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE id = $1 AND user_id = $2 AND status = 'open'`,
		id, userID)

	t, err := scanTrade(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrOpenTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trade: %w", err)
	}
	return t, nil
}

// ListTrades returns a filtered, sorted, paginated page of the user's
// trades. Filters bind as parameters; the ORDER BY clause is built only from
// allow-listed static strings.
func (r *Repository) ListTrades(ctx context.Context, userID uuid.UUID, query models.TradeListQuery) (*models.TradeListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage

	sortCol, err := SortColumn(query.SortBy)
	if err != nil {
		return nil, err
	}
	sortDir, err := SortOrder(query.SortOrder)
	if err != nil {
		return nil, err
	}

	conditions := []string{"user_id = $1"}
	args := []any{userID}

	addCondition := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	f := query.Filters
	if f.Status != nil {
		addCondition("status = $%d", *f.Status)
	}
	if f.Direction != nil {
		addCondition("direction = $%d", *f.Direction)
	}
	if f.AssetClass != nil {
		addCondition("asset_class = $%d", *f.AssetClass)
	}
	if f.Symbol != nil {
		addCondition("symbol ILIKE $%d", "%"+*f.Symbol+"%")
	}
	if f.SetupName != nil {
		addCondition("setup_name ILIKE $%d", "%"+*f.SetupName+"%")
	}
	if f.Conviction != nil {
		addCondition("conviction = $%d", *f.Conviction)
	}
	if f.IsPaperTrade != nil {
		addCondition("is_paper_trade = $%d", *f.IsPaperTrade)
	}
	if f.FromDate != nil {
		addCondition("entry_date >= $%d", *f.FromDate)
	}
	if f.ToDate != nil {
		addCondition("entry_date <= $%d", *f.ToDate)
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countSQL := "SELECT COUNT(*) FROM trades WHERE " + whereClause
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count trades: %w", err)
	}

	listSQL := fmt.Sprintf(
		"SELECT %s FROM trades WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		tradeColumns, whereClause, sortCol, sortDir, len(args)+1, len(args)+2,
	)
	rows, err := r.db.Query(ctx, listSQL, append(args, perPage, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	trades, err := collectTrades(rows)
	if err != nil {
		return nil, err
	}
	if trades == nil {
		trades = []models.Trade{}
	}

	totalPages := (total + int64(perPage) - 1) / int64(perPage)

	return &models.TradeListResponse{
		Trades:     trades,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// updatableColumns maps patch fields to their columns; the dynamic SET
// clause is assembled only from these static names.
func patchAssignments(req *models.UpdateTradeRequest) ([]string, []any) {
	var assignments []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		// first two placeholders are reserved for id and user_id
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)+2))
	}

	if req.Symbol != nil {
		add("symbol", *req.Symbol)
	}
	if req.EntryPrice != nil {
		add("entry_price", *req.EntryPrice)
	}
	if req.Quantity != nil {
		add("quantity", *req.Quantity)
	}
	if req.StopLoss != nil {
		add("stop_loss", *req.StopLoss)
	}
	if req.TakeProfit != nil {
		add("take_profit", *req.TakeProfit)
	}
	if req.RiskAmount != nil {
		add("risk_amount", *req.RiskAmount)
	}
	if req.RiskPercent != nil {
		add("risk_percent", *req.RiskPercent)
	}
	if req.Conviction != nil {
		add("conviction", *req.Conviction)
	}
	if req.SetupName != nil {
		add("setup_name", *req.SetupName)
	}
	if req.Timeframe != nil {
		add("timeframe", *req.Timeframe)
	}
	if req.Thesis != nil {
		add("thesis", *req.Thesis)
	}
	if req.Commissions != nil {
		add("commissions", *req.Commissions)
	}

	return assignments, args
}

// UpdateTrade applies a field-by-field patch to an open trade. Fields not
// present in the patch are left untouched.
func (r *Repository) UpdateTrade(ctx context.Context, userID, id uuid.UUID, req *models.UpdateTradeRequest) (*models.Trade, error) {
	assignments, args := patchAssignments(req)
	if len(assignments) == 0 {
		return r.GetTrade(ctx, userID, id)
	}
	assignments = append(assignments, "updated_at = NOW()")

	sql := fmt.Sprintf(
		"UPDATE trades SET %s WHERE id = $1 AND user_id = $2 AND status = 'open' RETURNING %s",
		strings.Join(assignments, ", "), tradeColumns,
	)

	row := r.db.QueryRow(ctx, sql, append([]any{id, userID}, args...)...)
	t, err := scanTrade(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrOpenTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}
	return t, nil
}

// CloseTrade applies a close update as one atomic statement. The status
// guard in the WHERE clause makes concurrent closes safe: only one close can
// match the open row, the loser observes not-found. Either every derived
// field is written or none is.
func (r *Repository) CloseTrade(ctx context.Context, userID, id uuid.UUID, update *journal.CloseUpdate) (*models.Trade, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE trades SET
			status = $3,
			exit_date = $4,
			exit_price = $5,
			actual_exit_price = $6,
			pnl = $7,
			pnl_percent = $8,
			net_pnl = $9,
			r_multiple = $10,
			hold_time_minutes = $11,
			mistakes = COALESCE($12, mistakes),
			lessons = COALESCE($13, lessons),
			execution_grade = COALESCE($14, execution_grade),
			patience_grade = COALESCE($15, patience_grade),
			discipline_grade = COALESCE($16, discipline_grade),
			overall_grade = COALESCE($17, overall_grade),
			broke_rules = COALESCE($18, broke_rules),
			followed_plan = COALESCE($19, followed_plan),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'open'
		RETURNING `+tradeColumns,
		id, userID,
		update.Status, update.ExitDate, update.ExitPrice, update.ActualExitPrice,
		update.Metrics.PnL, update.Metrics.PnLPercent, update.Metrics.NetPnL,
		update.Metrics.RMultiple, update.Metrics.HoldTimeMinutes,
		update.Mistakes, update.Lessons,
		update.ExecutionGrade, update.PatienceGrade, update.DisciplineGrade, update.OverallGrade,
		update.BrokeRules, update.FollowedPlan,
	)

	t, err := scanTrade(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrOpenTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to close trade: %w", err)
	}
	return t, nil
}

// DeleteTrade removes a trade owned by the user.
func (r *Repository) DeleteTrade(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM trades WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTradeNotFound
	}
	return nil
}

// GetClosedTrades returns the user's closed trades in exit-date order,
// optionally bounded by an exit-date range. This feeds every analytics
// aggregate.
func (r *Repository) GetClosedTrades(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]models.Trade, error) {
	conditions := []string{"user_id = $1", "status = 'closed'", "exit_date IS NOT NULL"}
	args := []any{userID}

	if from != nil {
		args = append(args, *from)
		conditions = append(conditions, fmt.Sprintf("exit_date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conditions = append(conditions, fmt.Sprintf("exit_date <= $%d", len(args)))
	}

	sql := fmt.Sprintf("SELECT %s FROM trades WHERE %s ORDER BY exit_date ASC",
		tradeColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed trades: %w", err)
	}
	return collectTrades(rows)
}

// GetOpenTrades returns the user's open trades in entry-date order. This
// feeds the portfolio heat calculation.
func (r *Repository) GetOpenTrades(ctx context.Context, userID uuid.UUID) ([]models.Trade, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE user_id = $1 AND status = 'open' ORDER BY entry_date ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open trades: %w", err)
	}
	return collectTrades(rows)
}
