package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

func (d Datasource) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT user_id, organization_id, role, full_name, phone, email, is_active, created_at
		FROM users
		WHERE user_id = $1
	`, userID)

	u := model.User{}
	var phone, email sql.NullString
	err := row.Scan(&u.UserID, &u.OrganizationID, &u.Role, &u.FullName, &phone, &email, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with ID '%s' not found", userID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	u.Phone = phone.String
	u.Email = email.String
	return &u, nil
}

func (d Datasource) ListUsersByRole(ctx context.Context, organizationID, role string) ([]model.User, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT user_id, organization_id, role, full_name, phone, email, is_active, created_at
		FROM users
		WHERE organization_id = $1 AND role = $2 AND is_active = TRUE
		ORDER BY full_name ASC
	`, organizationID, role)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u := model.User{}
		var phone, email sql.NullString
		err = rows.Scan(&u.UserID, &u.OrganizationID, &u.Role, &u.FullName, &phone, &email, &u.IsActive, &u.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan user data", err)
		}
		u.Phone = phone.String
		u.Email = email.String
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over users", err)
	}
	return users, nil
}
