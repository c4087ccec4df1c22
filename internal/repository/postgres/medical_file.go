package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
)

type medicalFileRepository struct {
	db *sqlx.DB
}

func NewMedicalFileRepository(db *sqlx.DB) repository.MedicalFileRepository {
	return &medicalFileRepository{db: db}
}

func (r *medicalFileRepository) Create(ctx context.Context, file *model.MedicalFile) error {
	query := `
		INSERT INTO medical_files (
			id, user_id, member_id, file_name, original_name, file_url, storage_id,
			file_type, report_type, test_name, report_date, hospital_name, doctor_name,
			notes, price, file_size, vitals, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.UserID,
		file.MemberID,
		file.FileName,
		file.OriginalName,
		file.FileURL,
		file.StorageID,
		file.FileType,
		file.ReportType,
		file.TestName,
		file.ReportDate,
		file.HospitalName,
		file.DoctorName,
		file.Notes,
		file.Price,
		file.FileSize,
		file.Vitals,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical file: %w", err)
	}
	return nil
}

func (r *medicalFileRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.MedicalFile, error) {
	query := `SELECT * FROM medical_files WHERE id = $1 AND user_id = $2`
	var file model.MedicalFile
	if err := r.db.GetContext(ctx, &file, query, id, userID); err != nil {
		return nil, wrapNotFound(err)
	}
	return &file, nil
}

// List returns the owner's files newest-report first. A nil memberID means
// the owner's own files (no member link); a non-nil one filters to that
// member.
func (r *medicalFileRepository) List(ctx context.Context, userID uuid.UUID, memberID *uuid.UUID) ([]*model.MedicalFile, error) {
	files := []*model.MedicalFile{}
	var err error
	if memberID != nil {
		query := `SELECT * FROM medical_files WHERE user_id = $1 AND member_id = $2 ORDER BY report_date DESC`
		err = r.db.SelectContext(ctx, &files, query, userID, *memberID)
	} else {
		query := `SELECT * FROM medical_files WHERE user_id = $1 AND member_id IS NULL ORDER BY report_date DESC`
		err = r.db.SelectContext(ctx, &files, query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list medical files: %w", err)
	}
	return files, nil
}

func (r *medicalFileRepository) Update(ctx context.Context, file *model.MedicalFile) error {
	query := `
		UPDATE medical_files
		SET member_id = $1, report_type = $2, test_name = $3, report_date = $4,
			hospital_name = $5, doctor_name = $6, notes = $7, price = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
	`
	file.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		file.MemberID,
		file.ReportType,
		file.TestName,
		file.ReportDate,
		file.HospitalName,
		file.DoctorName,
		file.Notes,
		file.Price,
		file.UpdatedAt,
		file.ID,
		file.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *medicalFileRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM medical_files WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete medical file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
