package validators

import "go.mongodb.org/mongo-driver/bson"

var BlockedRangeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"provider_id",
			"start_date",
			"end_date",
			"all_day",
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

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"all_day": bson.M{
				"bsonType": "bool",
			},

			"start_time": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  1440,
			},

			"end_time": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  1440,
			},

			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
