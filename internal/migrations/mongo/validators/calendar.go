package validators

import "go.mongodb.org/mongo-driver/bson"

var ExternalCalendarValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"source",
			"ical_url",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"source": bson.M{
				"bsonType": "string",
				"enum": []string{
					"airbnb",
					"booking_com",
					"vrbo",
					"other",
				},
			},

			"ical_url": bson.M{
				"bsonType":  "string",
				"pattern":   `^https?://`,
				"maxLength": 2000,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"last_synced": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"sync_errors": bson.M{
				"bsonType": []string{"string", "null"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BlockedDateValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"start_date",
			"end_date",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"external_calendar_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"external_id": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
