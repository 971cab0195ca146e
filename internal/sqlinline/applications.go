package sqlinline

const QInsertApplication = `--sql af0341a7-cc03-4ba1-8b3d-2089117e382f
insert into applications (id, user_id, cv_id, job_title, company, job_url, contact_email, status, method, source, request_data, response_data, applied_at, updated_at)
values (gen_random_uuid(), $1::uuid, nullif($2::text, '')::uuid, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text, $9::text,
        coalesce($10::jsonb, '{}'::jsonb), $11::jsonb, now(), now())
returning id::text, applied_at, updated_at;
`

const QSelectApplicationByID = `--sql 1f1814fc-8ccd-4563-804f-fcd711bc1343
select id::text, user_id::text, coalesce(cv_id::text, ''), job_title, company, job_url, contact_email,
       status, method, source, request_data, response_data, applied_at, updated_at
from applications
where id = $1::uuid
limit 1;
`

const QListApplicationsByUser = `--sql 3990609b-dd9c-4861-8b97-febf73a90fa7
select id::text, user_id::text, coalesce(cv_id::text, ''), job_title, company, job_url, contact_email,
       status, method, source, request_data, response_data, applied_at, updated_at
from applications
where user_id = $1::uuid
order by applied_at desc, id desc;
`

const QUpdateApplicationStatus = `--sql 6685c4b1-d2e3-4775-8053-8c22993d9449
update applications
set status = $2::text,
    response_data = coalesce($3::jsonb, response_data),
    updated_at = now()
where id = $1::uuid;
`

const QCountApplicationsSince = `--sql 774c3037-1299-42e0-8788-a5c908c6fe2b
select count(*)
from applications
where user_id = $1::uuid
  and applied_at >= $2::timestamptz;
`

const QApplicationStats = `--sql e87b058b-a403-4f10-8b8b-870c71f8cd48
select
    count(*),
    count(*) filter (where status = 'sent'),
    count(*) filter (where status = 'pending'),
    count(*) filter (where status = 'responded'),
    count(*) filter (where status = 'failed'),
    count(*) filter (where applied_at >= $2::timestamptz),
    count(*) filter (where applied_at >= $3::timestamptz)
from applications
where user_id = $1::uuid;
`
