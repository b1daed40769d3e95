package handler

import (
	"net/http"
	"testing"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		apiErr *model.APIError
		want   int
	}{
		{"validation", model.NewValidationError("x"), http.StatusBadRequest},
		{"authentication", model.NewAuthenticationError(), http.StatusUnauthorized},
		{"authorization", model.NewAuthorizationError("x"), http.StatusForbidden},
		{"not found", model.NewNotFoundError("user", "u-1"), http.StatusNotFound},
		{"invalid state transition", model.NewInvalidStateTransitionError(model.TimeLogStatusApproved), http.StatusConflict},
		{"persistence", model.NewPersistenceError(), http.StatusInternalServerError},
		{"unknown code", &model.APIError{Code: "SOMETHING_ELSE"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapAPIErrorToHTTPStatus(tt.apiErr); got != tt.want {
				t.Errorf("mapAPIErrorToHTTPStatus(%s) = %d, want %d", tt.apiErr.Code, got, tt.want)
			}
		})
	}
}

func TestViewScope(t *testing.T) {
	// マネージャーと経営層は全体を閲覧できる
	if !viewScope(managerActor).Allows("someone-else") {
		t.Error("manager view scope should allow any user")
	}
	lead := model.Actor{ID: "lead-1", Role: model.RoleLeadership}
	if !viewScope(lead).Allows("someone-else") {
		t.Error("leadership view scope should allow any user")
	}

	// 開発者は本人のみ
	scope := viewScope(developerActor)
	if !scope.Allows(developerActor.ID) {
		t.Error("developer view scope should allow self")
	}
	if scope.Allows("someone-else") {
		t.Error("developer view scope should not allow others")
	}
}

func TestEditScope(t *testing.T) {
	if !editScope(managerActor).Allows("someone-else") {
		t.Error("manager edit scope should allow any user")
	}

	// 経営層でも更新系は本人のみ
	lead := model.Actor{ID: "lead-1", Role: model.RoleLeadership}
	if editScope(lead).Allows("someone-else") {
		t.Error("leadership edit scope should not allow others")
	}
}
