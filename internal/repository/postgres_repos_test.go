package repository

import (
	"testing"
)

// 各PostgresリポジトリがRepositoryインターフェースを満たすことを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ TimeLogRepository = (*PostgresTimeLogRepo)(nil)
	var _ ActivityLogRepository = (*PostgresActivityLogRepo)(nil)
	var _ RoadmapRepository = (*PostgresRoadmapRepo)(nil)
	var _ FeatureStatusRepository = (*PostgresFeatureStatusRepo)(nil)
	var _ TaskRepository = (*PostgresTaskRepo)(nil)
	var _ SharedLinkRepository = (*PostgresSharedLinkRepo)(nil)
}

// 各コンストラクタが正しく初期化されることを検証
func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Error("expected non-nil user repo")
	}
	if NewPostgresTimeLogRepo(nil) == nil {
		t.Error("expected non-nil time log repo")
	}
	if NewPostgresActivityLogRepo(nil) == nil {
		t.Error("expected non-nil activity log repo")
	}
	if NewPostgresRoadmapRepo(nil) == nil {
		t.Error("expected non-nil roadmap repo")
	}
	if NewPostgresFeatureStatusRepo(nil) == nil {
		t.Error("expected non-nil feature status repo")
	}
	if NewPostgresTaskRepo(nil) == nil {
		t.Error("expected non-nil task repo")
	}
	if NewPostgresSharedLinkRepo(nil) == nil {
		t.Error("expected non-nil shared link repo")
	}
}
