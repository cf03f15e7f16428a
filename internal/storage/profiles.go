package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/docupress/entitlement-service/internal/models"
)

// RegisterProfile сохраняет новый профиль в базу данных и возвращает его UID.
func (s *Storage) RegisterProfile(ctx context.Context, profile models.Profile) (string, error) {
	const op = "storage.RegisterProfile"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO profiles (username, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		profile.Username, profile.Email, profile.PasswordHash).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetProfileByUsername возвращает профиль по имени пользователя.
func (s *Storage) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "storage.GetProfileByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, is_premium,
			      payment_id, paid_at, is_admin, created_at
			  FROM profiles
			  WHERE username = $1`
	return s.scanProfile(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetProfile возвращает профиль по его UID.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, is_premium,
			      payment_id, paid_at, is_admin, created_at
			  FROM profiles
			  WHERE uid = $1`
	return s.scanProfile(s.DB.QueryRowContext(ctx, query, userUID), op)
}

func (s *Storage) scanProfile(row *sql.Row, op string) (*models.Profile, error) {
	p := &models.Profile{}
	var paymentID sql.NullString
	var paidAt sql.NullTime
	if err := row.Scan(&p.UID, &p.Username, &p.Email, &p.PasswordHash,
		&p.IsPremium, &paymentID, &paidAt, &p.IsAdmin, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if paymentID.Valid {
		p.PaymentID = &paymentID.String
	}
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	return p, nil
}

// MarkPremium выставляет профилю постоянный платный доступ.
//
// Обновление условное: строка меняется только если is_premium ещё FALSE,
// поэтому два конкурентных подтверждения одного платежа схлопываются в
// одну запись, а paid_at выставляется ровно один раз. Возвращает true,
// если запись была обновлена этим вызовом, и false, если профиль уже был
// премиальным.
func (s *Storage) MarkPremium(ctx context.Context, userUID, paymentID string) (bool, error) {
	const op = "storage.MarkPremium"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET is_premium = TRUE,
			      payment_id = $2,
			      paid_at = now()
			  WHERE uid = $1 AND is_premium = FALSE`
	res, err := s.DB.ExecContext(ctx, query, userUID, paymentID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if affected > 0 {
		return true, nil
	}

	// Либо профиль уже премиальный, либо его вовсе нет.
	var isPremium bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT is_premium FROM profiles WHERE uid = $1`, userUID).Scan(&isPremium); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !isPremium {
		return false, fmt.Errorf("%s: conditional update affected no rows", op)
	}
	return false, nil
}

// SetAdmin выставляет профилю признак администратора.
func (s *Storage) SetAdmin(ctx context.Context, userUID string) error {
	const op = "storage.SetAdmin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET is_admin = TRUE
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}
	return nil
}
