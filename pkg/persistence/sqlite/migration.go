package sqlite

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE automation_flows (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				nodes TEXT NOT NULL DEFAULT '[]',
				edges TEXT NOT NULL DEFAULT '[]',
				trigger_type TEXT NOT NULL DEFAULT 'keyword',
				trigger_value TEXT,
				enabled BOOLEAN NOT NULL DEFAULT 1,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);

			CREATE INDEX idx_automation_flows_enabled ON automation_flows(enabled, created_at);

			CREATE TABLE settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP
			);

			CREATE TABLE bot_stats (
				key TEXT PRIMARY KEY,
				value INTEGER NOT NULL DEFAULT 0
			);
		`,
		2: `
			CREATE TABLE cron_jobs (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				schedule TEXT NOT NULL,
				prompt TEXT,
				target_jid TEXT NOT NULL,
				flow_id TEXT,
				enabled BOOLEAN NOT NULL DEFAULT 1,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
		`,
	}
}
