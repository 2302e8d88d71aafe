/*
Copyright 2025 Sitefix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/sitefixhq/sitefix/database"
	"github.com/sitefixhq/sitefix/model"
)

// seedCommands fills the database with a demo organization so a fresh
// install has something to click on.
func seedCommands(s *sitefixInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "seed sitefix with demo data",
		Run: func(cmd *cobra.Command, args []string) {
			store, err := database.GetDBConnection(s.cnf)
			if err != nil {
				log.Fatalf("Error connecting to database: %v", err)
			}

			if err := seedDemoData(context.Background(), s, store.Conn); err != nil {
				log.Fatalf("Error seeding demo data: %v", err)
			}
			fmt.Println("Demo data seeded!")
		},
	}

	return cmd
}

func seedDemoData(ctx context.Context, s *sitefixInstance, db *sql.DB) error {
	orgID := model.GenerateUUIDWithSuffix("org")
	_, err := db.ExecContext(ctx,
		`INSERT INTO organizations (organization_id, name) VALUES ($1, $2)`,
		orgID, gofakeit.Company())
	if err != nil {
		return err
	}

	siteID := model.GenerateUUIDWithSuffix("site")
	_, err = db.ExecContext(ctx,
		`INSERT INTO sites (site_id, organization_id, name, address) VALUES ($1, $2, $3, $4)`,
		siteID, orgID, gofakeit.Company()+" "+gofakeit.City(), gofakeit.Address().Address)
	if err != nil {
		return err
	}

	gm, err := seedUser(ctx, db, orgID, model.RoleGM)
	if err != nil {
		return err
	}
	contractor, err := seedUser(ctx, db, orgID, model.RoleContractor)
	if err != nil {
		return err
	}

	gmActor := model.Actor{
		UserID:         gm.UserID,
		OrganizationID: orgID,
		Role:           model.RoleGM,
		DisplayName:    gm.FullName,
	}

	titles := []string{
		"Walk-in cooler not holding temp",
		"Fryer pilot won't stay lit",
		"Leak under the prep sink",
		"Back door closer slamming",
	}
	priorities := []string{model.PriorityEmergency, model.PriorityHigh, model.PriorityNormal, model.PriorityLow}

	for i, title := range titles {
		wo, err := s.sitefix.CreateWorkOrder(ctx, gmActor, &model.WorkOrder{
			SiteID:      siteID,
			Title:       title,
			Description: gofakeit.Sentence(12),
			Priority:    priorities[i%len(priorities)],
		})
		if err != nil {
			return err
		}

		if i == 0 {
			if _, err := s.sitefix.AssignWorkOrder(ctx, gmActor, wo.WorkOrderID, contractor.UserID, false); err != nil {
				return err
			}
		}
	}

	fmt.Printf("Organization: %s\nGM: %s\nContractor: %s\n", orgID, gm.UserID, contractor.UserID)
	return nil
}

func seedUser(ctx context.Context, db *sql.DB, orgID, role string) (*model.User, error) {
	user := &model.User{
		UserID:         model.GenerateUUIDWithSuffix("usr"),
		OrganizationID: orgID,
		Role:           role,
		FullName:       gofakeit.Name(),
		Phone:          gofakeit.Phone(),
		Email:          gofakeit.Email(),
		IsActive:       true,
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (user_id, organization_id, role, full_name, phone, email, is_active) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.UserID, user.OrganizationID, user.Role, user.FullName, user.Phone, user.Email, user.IsActive)
	if err != nil {
		return nil, err
	}
	return user, nil
}
