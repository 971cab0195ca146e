package sqlinline

const QInsertCV = `--sql e31ec875-98ec-4d5e-b3a4-ee7778dee9fa
insert into cvs (id, user_id, file_name, original_name, mime_type, size_bytes, parsed_data, uploaded_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::bigint, coalesce($6::jsonb, '{}'::jsonb), now())
returning id::text, uploaded_at;
`

const QSelectCVByID = `--sql 8aa11993-061f-4971-a356-5db3e521a615
select id::text, user_id::text, file_name, original_name, mime_type, size_bytes, parsed_data, uploaded_at
from cvs
where id = $1::uuid
limit 1;
`

const QListCVsByUser = `--sql 3140bfca-3a02-4236-be8c-cf7bf772058f
select id::text, user_id::text, file_name, original_name, mime_type, size_bytes, parsed_data, uploaded_at
from cvs
where user_id = $1::uuid
order by uploaded_at desc, id desc;
`

const QDeleteCV = `--sql 1afd9818-9744-411f-b585-12cf82d0976e
delete from cvs
where id = $1::uuid;
`
