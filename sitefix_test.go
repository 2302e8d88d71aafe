package sitefix

import (
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sitefixhq/sitefix/config"
	"github.com/sitefixhq/sitefix/database"
	"github.com/sitefixhq/sitefix/model"
)

func newTestService(t *testing.T) (*Sitefix, sqlmock.Sqlmock) {
	t.Helper()
	config.MockConfig(&config.Configuration{AppBaseUrl: "https://app.sitefix.example"})
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Printf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	service, err := NewSitefix(&database.Datasource{Conn: db})
	if err != nil {
		t.Fatalf("Error creating Sitefix instance: %s", err)
	}
	return service, mock
}

func gmActor() model.Actor {
	return model.Actor{UserID: "usr_gm", OrganizationID: "org_1", Role: model.RoleGM, DisplayName: "Grace Manager"}
}

func contractorActor() model.Actor {
	return model.Actor{UserID: "usr_contractor", OrganizationID: "org_1", Role: model.RoleContractor, DisplayName: "Carl Contractor"}
}
