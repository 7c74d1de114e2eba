package database

// Table names
const (
	TableProperties        = "Properties"
	TableContacts          = "Contacts"
	TableDeals             = "Deals"
	TableTasks             = "Tasks"
	TableContactProperties = "ContactProperties"
	TableLeadScores        = "LeadScores"
	TableEmailTemplates    = "EmailTemplates"
	TableKnowledge         = "KnowledgeNexus"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Properties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		building TEXT NOT NULL,
		unit TEXT NOT NULL,
		area TEXT,
		property_type TEXT,
		bedrooms INTEGER,
		bathrooms INTEGER,
		size_sqft REAL,
		price REAL,
		status TEXT DEFAULT 'Available',
		description TEXT,
		amenities TEXT,
		created_date TEXT,
		updated_date TEXT,
		UNIQUE(building, unit)
	)`,
	`CREATE TABLE IF NOT EXISTS Contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		lead_status TEXT DEFAULT 'Cold',
		source TEXT,
		notes TEXT,
		last_contacted_date TEXT,
		created_date TEXT,
		updated_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Deals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER REFERENCES Properties (id),
		contact_id INTEGER REFERENCES Contacts (id),
		deal_type TEXT,
		status TEXT DEFAULT 'Active',
		deal_value REAL,
		commission REAL,
		created_date TEXT,
		closing_date TEXT,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT DEFAULT 'Pending',
		priority TEXT DEFAULT 'Medium',
		assigned_to TEXT,
		contact_id INTEGER REFERENCES Contacts (id),
		property_id INTEGER REFERENCES Properties (id),
		created_date TEXT,
		due_date TEXT,
		completed_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS ContactProperties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER REFERENCES Contacts (id),
		property_id INTEGER REFERENCES Properties (id),
		relationship_type TEXT,
		start_date TEXT,
		end_date TEXT,
		created_date TEXT,
		UNIQUE(contact_id, property_id, relationship_type)
	)`,
	`CREATE TABLE IF NOT EXISTS LeadScores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL UNIQUE REFERENCES Contacts (id),
		score REAL,
		score_factors TEXT,
		last_calculated TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS EmailTemplates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		template_name TEXT UNIQUE,
		subject TEXT,
		body TEXT,
		template_type TEXT,
		variables TEXT,
		created_date TEXT,
		updated_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS KnowledgeNexus (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content_type TEXT,
		title TEXT,
		content TEXT,
		source_file TEXT UNIQUE,
		metadata TEXT,
		tags TEXT,
		created_date TEXT,
		updated_date TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_status ON Contacts (lead_status)`,
	`CREATE INDEX IF NOT EXISTS idx_cp_property ON ContactProperties (property_id, relationship_type)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due ON Tasks (status, due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_deals_status ON Deals (status)`,
}
