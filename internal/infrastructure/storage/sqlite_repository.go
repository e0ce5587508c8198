package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/ports"
)

const (
	petsTable          = "pets"
	subscriptionsTable = "alert_subscriptions"

	// Fixed width so lexical order in TEXT columns equals chronological order.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

const tierRankExpr = "CASE urgency_tier WHEN 'critical' THEN 1 WHEN 'moderate' THEN 2 ELSE 3 END"

var petColumns = []string{
	"id", "source_name", "source_url", "name", "species", "breed", "age",
	"description", "location", "region", "days_in_shelter", "days_until_deadline",
	"urgency_tier", "contact_phone", "contact_email", "image_url",
	"posted_date", "ingested_at", "is_active",
}

// SQLiteRepository persists pet records and alert subscriptions in SQLite.
type SQLiteRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var (
	_ ports.PetRepository          = (*SQLiteRepository)(nil)
	_ ports.SubscriptionRepository = (*SQLiteRepository)(nil)
)

// Open opens (or creates) the database file at path, applies pragmas and runs
// pending migrations.
func Open(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection serialises writers inside the process and keeps
	// per-connection pragmas in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	if _, _, err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLiteRepository(db), nil
}

// NewSQLiteRepository wires an already migrated sql.DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InsertIfAbsent stores the record unless a row with identical content exists.
// The content hash covers every field except id, ingestion time and the
// active flag.
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, record domain.PetRecord) (int64, bool, error) {
	query, args, err := r.builder.
		Insert(petsTable).
		Columns(
			"source_name", "source_url", "name", "species", "breed", "age",
			"description", "location", "region", "days_in_shelter", "days_until_deadline",
			"urgency_tier", "contact_phone", "contact_email", "image_url",
			"posted_date", "ingested_at", "is_active", "content_hash",
		).
		Values(
			record.SourceName, record.SourceURL, record.Name, string(record.Species), record.Breed, record.Age,
			record.Description, record.Location, nullString(record.Region), nullInt(record.DaysInShelter), nullInt(record.DaysUntilDeadline),
			string(record.UrgencyTier), record.ContactPhone, record.ContactEmail, record.ImageURL,
			formatTime(record.PostedDate), formatTime(record.IngestedAt), record.IsActive, ContentHash(record),
		).
		Suffix("ON CONFLICT (content_hash) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, false, fmt.Errorf("insert pet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}

	return id, true, nil
}

// QueryActive returns active records matching filter, most urgent first.
func (r *SQLiteRepository) QueryActive(ctx context.Context, filter domain.PetFilter, page domain.Page) ([]domain.PetRecord, error) {
	sel := r.builder.
		Select(petColumns...).
		From(petsTable).
		Where(sq.Eq{"is_active": true})

	sel = applyFilter(sel, filter)

	sel = sel.OrderBy(
		tierRankExpr+" ASC",
		"days_until_deadline IS NULL ASC",
		"days_until_deadline ASC",
		"ingested_at DESC",
		"id DESC",
	)

	if page.Limit > 0 {
		sel = sel.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		if page.Limit <= 0 {
			sel = sel.Limit(uint64(domain.MaxPageLimit))
		}
		sel = sel.Offset(uint64(page.Offset))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pets: %w", err)
	}

	var result []domain.PetRecord
	for rows.Next() {
		record, err := scanPet(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		result = append(result, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

func applyFilter(sel sq.SelectBuilder, filter domain.PetFilter) sq.SelectBuilder {
	if filter.Region != "" {
		sel = sel.Where(sq.Eq{"region": filter.Region})
	}
	if filter.Species != "" {
		sel = sel.Where(sq.Eq{"species": string(filter.Species)})
	}
	if filter.UrgencyTier != "" {
		sel = sel.Where(sq.Eq{"urgency_tier": string(filter.UrgencyTier)})
	}
	if filter.DaysInShelterMin != nil {
		sel = sel.Where(sq.GtOrEq{"days_in_shelter": *filter.DaysInShelterMin})
	}
	if filter.DaysInShelterMax != nil {
		sel = sel.Where(sq.LtOrEq{"days_in_shelter": *filter.DaysInShelterMax})
	}
	if filter.DaysUntilDeadlineMax != nil {
		sel = sel.Where(sq.LtOrEq{"days_until_deadline": *filter.DaysUntilDeadlineMax})
	}
	return sel
}

// GetByID loads a single record regardless of its active flag.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (domain.PetRecord, error) {
	query, args, err := r.builder.
		Select(petColumns...).
		From(petsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.PetRecord{}, fmt.Errorf("build query: %w", err)
	}

	record, err := scanPet(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PetRecord{}, fmt.Errorf("pet %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.PetRecord{}, err
	}
	return record, nil
}

// SetActive flips the soft-delete flag of a record.
func (r *SQLiteRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query, args, err := r.builder.
		Update(petsTable).
		Set("is_active", active).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pet %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pet %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Stats aggregates the active records.
func (r *SQLiteRepository) Stats(ctx context.Context) (domain.Stats, error) {
	stats := domain.Stats{
		ByTier:    map[domain.UrgencyTier]int{},
		BySpecies: map[domain.Species]int{},
	}

	query, args, err := r.builder.
		Select("COUNT(*)", "COUNT(DISTINCT region)", "AVG(days_in_shelter)").
		From(petsTable).
		Where(sq.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("build stats query: %w", err)
	}

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.Total, &stats.DistinctRegions, &avg); err != nil {
		return domain.Stats{}, fmt.Errorf("query totals: %w", err)
	}
	if avg.Valid {
		v := avg.Float64
		stats.AvgDaysInShelter = &v
	}

	tiers, err := r.countBy(ctx, "urgency_tier")
	if err != nil {
		return domain.Stats{}, err
	}
	for key, n := range tiers {
		stats.ByTier[domain.UrgencyTier(key)] = n
	}

	species, err := r.countBy(ctx, "species")
	if err != nil {
		return domain.Stats{}, err
	}
	for key, n := range species {
		stats.BySpecies[domain.Species(key)] = n
	}

	return stats, nil
}

func (r *SQLiteRepository) countBy(ctx context.Context, column string) (map[string]int, error) {
	query, args, err := r.builder.
		Select(column, "COUNT(*)").
		From(petsTable).
		Where(sq.Eq{"is_active": true}).
		GroupBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count by %s: %w", column, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}

	result := make(map[string]int)
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		result[key] = n
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (domain.PetRecord, error) {
	var (
		record            domain.PetRecord
		species, tier     string
		region            sql.NullString
		daysInShelter     sql.NullInt64
		daysUntilDeadline sql.NullInt64
		posted, ingested  string
	)

	err := row.Scan(
		&record.ID, &record.SourceName, &record.SourceURL, &record.Name, &species, &record.Breed, &record.Age,
		&record.Description, &record.Location, &region, &daysInShelter, &daysUntilDeadline,
		&tier, &record.ContactPhone, &record.ContactEmail, &record.ImageURL,
		&posted, &ingested, &record.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PetRecord{}, err
	}
	if err != nil {
		return domain.PetRecord{}, fmt.Errorf("scan pet: %w", err)
	}

	record.Species = domain.Species(species)
	record.UrgencyTier = domain.UrgencyTier(tier)
	if region.Valid {
		record.Region = domain.StringPtr(region.String)
	}
	if daysInShelter.Valid {
		record.DaysInShelter = domain.IntPtr(int(daysInShelter.Int64))
	}
	if daysUntilDeadline.Valid {
		record.DaysUntilDeadline = domain.IntPtr(int(daysUntilDeadline.Int64))
	}

	if record.PostedDate, err = parseTime(posted); err != nil {
		return domain.PetRecord{}, fmt.Errorf("parse posted_date: %w", err)
	}
	if record.IngestedAt, err = parseTime(ingested); err != nil {
		return domain.PetRecord{}, fmt.Errorf("parse ingested_at: %w", err)
	}

	return record, nil
}

// ContentHash fingerprints every content field of a record so that exact
// re-ingestions collapse onto one row.
func ContentHash(record domain.PetRecord) string {
	fields := []string{
		record.SourceName,
		record.SourceURL,
		record.Name,
		string(record.Species),
		record.Breed,
		record.Age,
		record.Description,
		record.Location,
		optionalString(record.Region),
		optionalInt(record.DaysInShelter),
		optionalInt(record.DaysUntilDeadline),
		string(record.UrgencyTier),
		record.ContactPhone,
		record.ContactEmail,
		record.ImageURL,
		formatTime(record.PostedDate),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x1f")))
	return hex.EncodeToString(sum[:])
}

func optionalString(v *string) string {
	if v == nil {
		return "\x00"
	}
	return *v
}

func optionalInt(v *int) string {
	if v == nil {
		return "\x00"
	}
	return strconv.Itoa(*v)
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}
