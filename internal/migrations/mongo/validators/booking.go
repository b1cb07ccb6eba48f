package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"provider_id",
			"location_id",
			"service_id",
			"start_time",
			"end_time",
			"duration_min",
			"status",
			"client",
			"cancel_token",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"provider_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"location_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"member_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  480,
			},

			"buffer_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  120,
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled", "completed", "noshow"},
			},

			"client": bson.M{
				"bsonType": "object",
				"required": []string{"name", "email"},
				"properties": bson.M{
					"name": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 100,
					},
					"email": bson.M{
						"bsonType":  "string",
						"minLength": 3,
						"maxLength": 254,
					},
					"phone": bson.M{
						"bsonType": "string",
					},
					"notes": bson.M{
						"bsonType":  "string",
						"maxLength": 500,
					},
				},
			},

			"cancel_token": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"cancelled_by": bson.M{
				"enum": []string{"provider", "client"},
			},

			"cancel_reason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},

			"reminders_sent": bson.M{
				"bsonType": "array",
				"maxItems": 10,
				"items": bson.M{
					"bsonType": "int",
				},
			},

			"review_request_sent_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
