package validators

import "go.mongodb.org/mongo-driver/bson"

var ProviderSettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"requires_confirmation",
			"allow_client_cancellation",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"requires_confirmation": bson.M{
				"bsonType": "bool",
			},

			"default_buffer_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  120,
			},

			"min_booking_notice_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  10080,
			},

			"max_booking_advance_days": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  365,
			},

			"allow_client_cancellation": bson.M{
				"bsonType": "bool",
			},

			"cancellation_deadline_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  20160,
			},

			"reminder_offsets_hours": bson.M{
				"bsonType": "array",
				"maxItems": 10,
				"items": bson.M{
					"bsonType": "int",
					"minimum":  1,
					"maximum":  720,
				},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
