package validators

import "go.mongodb.org/mongo-driver/bson"

var WeeklyScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"provider_id",
			"location_id",
			"day_of_week",
			"is_open",
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

			"day_of_week": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  6,
			},

			"is_open": bson.M{
				"bsonType": "bool",
			},

			"slots": bson.M{
				"bsonType": "array",
				"maxItems": 24,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"start", "end"},
					"properties": bson.M{
						"start": bson.M{
							"bsonType": "int",
							"minimum":  0,
							"maximum":  1439,
						},
						"end": bson.M{
							"bsonType": "int",
							"minimum":  1,
							"maximum":  1440,
						},
					},
				},
			},

			"effective_from": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
