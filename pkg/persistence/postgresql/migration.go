package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE automation_flows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT,
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				trigger_type VARCHAR(50) NOT NULL DEFAULT 'keyword',
				trigger_value TEXT,
				enabled BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_automation_flows_enabled ON automation_flows(enabled, created_at);

			CREATE TABLE settings (
				key VARCHAR(255) PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE
			);

			CREATE TABLE bot_stats (
				key VARCHAR(255) PRIMARY KEY,
				value BIGINT NOT NULL DEFAULT 0
			);
		`,
		2: `
			CREATE TABLE cron_jobs (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				schedule VARCHAR(255) NOT NULL,
				prompt TEXT,
				target_jid VARCHAR(255) NOT NULL,
				flow_id VARCHAR(255),
				enabled BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_cron_jobs_enabled ON cron_jobs(enabled);
		`,
	}
}
